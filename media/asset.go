package media

import "fmt"

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Asset is a downloaded or synthesized file owned by a single job. Duration
// is only meaningful for video and audio assets and is zero until probed.
type Asset struct {
	Path     string
	Kind     Kind
	Duration float64
}

type FrameSize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

func (f FrameSize) String() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

func (f FrameSize) Valid() bool {
	return f.Width > 0 && f.Height > 0 && f.Width%2 == 0 && f.Height%2 == 0
}
