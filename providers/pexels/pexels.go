package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/utils/restclient"
)

const (
	default_search_url = "https://api.pexels.com/videos/search"
	default_timeout    = 10 * time.Second
	mp4_file_type      = "video/mp4"
)

var (
	errNotConfigured = errors.New("pexels api key not configured")
	errNoVideos      = errors.New("no videos found")
)

type Sink interface {
	SaveStream(r io.Reader, ext string) (string, error)
}

type Pexels struct {
	APIKey    string
	SearchURL string
	Timeout   time.Duration
	Client    restclient.HTTPClient
}

type searchResponse struct {
	Videos []video `json:"videos"`
}

type video struct {
	ID         int         `json:"id"`
	Duration   int         `json:"duration"`
	VideoFiles []videoFile `json:"video_files"`
}

type videoFile struct {
	Link     string `json:"link"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func New(client restclient.HTTPClient, apiKey string) *Pexels {
	return &Pexels{
		APIKey:    apiKey,
		SearchURL: default_search_url,
		Timeout:   default_timeout,
		Client:    client,
	}
}

// FetchStockVideos downloads up to count clips matching the subject, in the
// orientation of the target frame.
func (p *Pexels) FetchStockVideos(ctx context.Context, subject string, count int, size media.FrameSize, sink Sink) providers.Result[[]media.Asset] {
	var assets []media.Asset
	if count <= 0 {
		return providers.OK(assets)
	}
	if p.APIKey == "" {
		return providers.Degraded(assets, errNotConfigured)
	}

	videos, err := p.search(ctx, subject, count, size)
	if err != nil {
		return providers.Degraded(assets, err)
	}

	var failures []error
	for _, v := range videos {
		file, ok := selectFile(v.VideoFiles, size)
		if !ok {
			continue
		}
		path, err := p.download(ctx, file.Link, sink)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		assets = append(assets, media.Asset{Path: path, Kind: media.KindVideo, Duration: float64(v.Duration)})
		if len(assets) >= count {
			break
		}
	}
	if len(assets) < count {
		reason := fmt.Errorf("got %d of %d videos", len(assets), count)
		if len(failures) > 0 {
			reason = fmt.Errorf("%w: %w", reason, errors.Join(failures...))
		}
		return providers.Degraded(assets, reason)
	}
	return providers.OK(assets)
}

func (p *Pexels) search(ctx context.Context, subject string, count int, size media.FrameSize) ([]video, error) {
	query := strings.TrimSpace(subject)
	if query == "" {
		return nil, errors.New("empty subject")
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprint(count*2))
	params.Set("orientation", Orientation(size))
	body, err := restclient.GetOK(ctx, p.Client, p.SearchURL+"?"+params.Encode(), http.Header{"Authorization": {p.APIKey}})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var response searchResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}
	if len(response.Videos) == 0 {
		return nil, errNoVideos
	}
	return response.Videos, nil
}

func Orientation(size media.FrameSize) string {
	switch {
	case size.Width > size.Height:
		return "landscape"
	case size.Width < size.Height:
		return "portrait"
	default:
		return "square"
	}
}

// selectFile prefers the smallest mp4 rendition that still covers the frame
// width, falling back to the largest one available.
func selectFile(files []videoFile, size media.FrameSize) (videoFile, bool) {
	var mp4s []videoFile
	for _, f := range files {
		if f.FileType == mp4_file_type && f.Link != "" {
			mp4s = append(mp4s, f)
		}
	}
	if len(mp4s) == 0 {
		return videoFile{}, false
	}
	sort.Slice(mp4s, func(i, j int) bool { return mp4s[i].Width < mp4s[j].Width })
	for _, f := range mp4s {
		if f.Width >= size.Width {
			return f, true
		}
	}
	return mp4s[len(mp4s)-1], true
}

func (p *Pexels) download(ctx context.Context, link string, sink Sink) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, p.Client, link, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()
	return sink.SaveStream(body, ".mp4")
}
