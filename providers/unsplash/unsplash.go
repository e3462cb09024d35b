package unsplash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/utils/restclient"
	"golang.org/x/net/html"
)

const (
	default_search_url = "https://unsplash.com/s/photos/"
	default_timeout    = 6 * time.Second
	default_user_agent = "Mozilla/5.0"
	candidates_per_img = 3
)

var errNoImages = errors.New("no images found")

// Sink stores a downloaded stream under a fresh path owned by the caller.
type Sink interface {
	SaveStream(r io.Reader, ext string) (string, error)
}

type Unsplash struct {
	SearchURL string
	UserAgent string
	Timeout   time.Duration
	Client    restclient.HTTPClient
}

func New(client restclient.HTTPClient) *Unsplash {
	return &Unsplash{
		SearchURL: default_search_url,
		UserAgent: default_user_agent,
		Timeout:   default_timeout,
		Client:    client,
	}
}

// FetchImages returns between 0 and count downloaded stills. Each download
// is independent: images fetched before a failure are kept.
func (u *Unsplash) FetchImages(ctx context.Context, subject string, count int, sink Sink) providers.Result[[]media.Asset] {
	var assets []media.Asset
	if count <= 0 {
		return providers.OK(assets)
	}

	candidates, err := u.search(ctx, subject, count*candidates_per_img)
	if err != nil {
		return providers.Degraded(assets, err)
	}

	var failures []error
	for _, imageURL := range candidates {
		path, err := u.download(ctx, imageURL, sink)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		assets = append(assets, media.Asset{Path: path, Kind: media.KindImage})
		if len(assets) >= count {
			break
		}
	}

	if len(assets) < count {
		reason := fmt.Errorf("got %d of %d images", len(assets), count)
		if len(failures) > 0 {
			reason = fmt.Errorf("%w: %w", reason, errors.Join(failures...))
		}
		return providers.Degraded(assets, reason)
	}
	return providers.OK(assets)
}

func (u *Unsplash) headers() http.Header {
	return http.Header{"User-Agent": {u.UserAgent}}
}

func (u *Unsplash) search(ctx context.Context, subject string, limit int) ([]string, error) {
	query := strings.TrimSpace(subject)
	if query == "" {
		return nil, errors.New("empty subject")
	}
	ctx, cancel := context.WithTimeout(ctx, u.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, u.Client, u.SearchURL+url.PathEscape(query), u.headers())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	nodes := providers.FindAll(doc, func(n *html.Node) bool {
		if n.Data != "img" {
			return false
		}
		_, ok := providers.Attr(n, "srcset")
		return ok
	}, limit)

	var urls []string
	for _, node := range nodes {
		srcset, _ := providers.Attr(node, "srcset")
		if candidate := LargestCandidate(srcset); candidate != "" {
			urls = append(urls, candidate)
		}
	}
	if len(urls) == 0 {
		return nil, errNoImages
	}
	return urls, nil
}

// LargestCandidate picks the last entry of a srcset attribute, which is the
// highest resolution one on the sites we scrape.
func LargestCandidate(srcset string) string {
	entries := strings.Split(srcset, ",")
	for i := len(entries) - 1; i >= 0; i-- {
		fields := strings.Fields(entries[i])
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

func (u *Unsplash) download(ctx context.Context, imageURL string, sink Sink) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, u.Client, imageURL, u.headers())
	if err != nil {
		return "", err
	}
	defer body.Close()
	return sink.SaveStream(body, extension(imageURL))
}

func extension(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err == nil {
		switch ext := strings.ToLower(path.Ext(parsed.Path)); ext {
		case ".png", ".webp", ".gif", ".jpeg":
			return ext
		}
		if fm := parsed.Query().Get("fm"); fm == "png" || fm == "webp" {
			return "." + fm
		}
	}
	return ".jpg"
}
