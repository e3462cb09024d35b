package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/utils/restclient"
	"golang.org/x/net/html"
)

const (
	default_base_url   = "https://en.wikipedia.org/wiki/"
	default_paragraphs = 5
	default_max_chars  = 1000
	default_timeout    = 6 * time.Second
	content_container  = "mw-parser-output"
	FallbackExcerpt    = "Découvrez les avantages uniques de ce sujet."
)

var errNoContent = errors.New("no paragraph content found")

type Wikipedia struct {
	BaseURL    string
	Paragraphs int
	MaxChars   int
	Timeout    time.Duration
	Client     restclient.HTTPClient
}

func New(client restclient.HTTPClient) *Wikipedia {
	return &Wikipedia{
		BaseURL:    default_base_url,
		Paragraphs: default_paragraphs,
		MaxChars:   default_max_chars,
		Timeout:    default_timeout,
		Client:     client,
	}
}

// FetchExcerpt returns the leading paragraphs of the subject's article.
// Any failure yields the fixed fallback sentence marked as degraded.
func (w *Wikipedia) FetchExcerpt(ctx context.Context, subject string) providers.Result[string] {
	excerpt, err := w.fetch(ctx, subject)
	if err != nil {
		return providers.Degraded(FallbackExcerpt, err)
	}
	return providers.OK(excerpt)
}

func (w *Wikipedia) fetch(ctx context.Context, subject string) (string, error) {
	query := providers.Underscore(subject)
	if query == "" {
		return "", errors.New("empty subject")
	}
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, w.Client, w.BaseURL+url.PathEscape(query), nil)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}
	return w.extract(doc)
}

func (w *Wikipedia) extract(doc *html.Node) (string, error) {
	container := providers.FindFirst(doc, func(n *html.Node) bool {
		return n.Data == "div" && providers.HasClass(n, content_container)
	})
	if container == nil {
		return "", errNoContent
	}

	// Empty placeholder paragraphs do not count toward the limit
	var parts []string
	for _, p := range providers.FindAll(container, providers.Tag("p"), 0) {
		text := strings.Join(strings.Fields(providers.Text(p)), " ")
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if len(parts) >= w.Paragraphs {
			break
		}
	}
	excerpt := strings.TrimSpace(providers.Truncate(strings.Join(parts, " "), w.MaxChars))
	if excerpt == "" {
		return "", errNoContent
	}
	return excerpt, nil
}
