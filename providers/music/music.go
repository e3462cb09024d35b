package music

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/providers"
	"github.com/pashonic/globecast/utils/restclient"
)

const (
	DefaultTrackURL = "https://files.freemusicarchive.org/storage-freemusicarchive-org/music/no_curator/Lite_Saturation/Upbeat_Corporate/Lite_Saturation_-_Medium2.mp3"
	default_timeout = 12 * time.Second
)

type Sink interface {
	SaveStream(r io.Reader, ext string) (string, error)
}

type Music struct {
	TrackURL string
	Timeout  time.Duration
	Client   restclient.HTTPClient
}

func New(client restclient.HTTPClient, trackURL string) *Music {
	if trackURL == "" {
		trackURL = DefaultTrackURL
	}
	return &Music{
		TrackURL: trackURL,
		Timeout:  default_timeout,
		Client:   client,
	}
}

// FetchBackgroundMusic downloads the royalty-free bed. A nil Value means
// the job runs without music.
func (m *Music) FetchBackgroundMusic(ctx context.Context, sink Sink) providers.Result[*media.Asset] {
	if m.TrackURL == "" {
		return providers.Degraded[*media.Asset](nil, errors.New("no track configured"))
	}
	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()

	body, err := restclient.GetOK(ctx, m.Client, m.TrackURL, nil)
	if err != nil {
		return providers.Degraded[*media.Asset](nil, err)
	}
	defer body.Close()

	path, err := sink.SaveStream(body, ".mp3")
	if err != nil {
		return providers.Degraded[*media.Asset](nil, err)
	}
	return providers.OK(&media.Asset{Path: path, Kind: media.KindAudio})
}
