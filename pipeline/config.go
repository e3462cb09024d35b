package pipeline

import (
	"errors"
	"fmt"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/script"
	"github.com/pashonic/globecast/videobuilder"
	"github.com/pashonic/globecast/voice"
)

const (
	DefaultMaxDuration = 60.0
	min_fps            = 15
	max_fps            = 24
)

var ErrInvalidConfig = errors.New("invalid config")

type AssetSource string

const (
	AssetSourceImages     AssetSource = "images"
	AssetSourceImageVideo AssetSource = "images+video"
)

// Config is the parameter set that distinguishes one pipeline variant from
// another. Zero values are not defaults; start from DefaultConfig.
type Config struct {
	VolumeBoost        voice.Method               `toml:"volume_boost"`
	CaptionRenderer    videobuilder.Renderer      `toml:"caption_renderer"`
	AssetSource        AssetSource                `toml:"asset_source"`
	MaxDuration        float64                    `toml:"max_duration"`
	FrameSizes         map[string]media.FrameSize `toml:"frame_sizes"`
	FPS                int                        `toml:"fps"`
	Crossfade          float64                    `toml:"crossfade"`
	TransitionOverlap  float64                    `toml:"transition_overlap"`
	ImageCount         int                        `toml:"image_count"`
	VideoCount         int                        `toml:"video_count"`
	MusicGain          float64                    `toml:"music_gain"`
	CaptionChars       int                        `toml:"caption_chars"`
	ScriptExcerptChars int                        `toml:"script_excerpt_chars"`
	TTSChars           int                        `toml:"tts_chars"`
	MinVoiceBytes      int                        `toml:"min_voice_bytes"`
	MinBoostBytes      int64                      `toml:"min_boost_bytes"`
	FillerColor        string                     `toml:"filler_color"`
	VideoCodec         string                     `toml:"video_codec"`
	AudioCodec         string                     `toml:"audio_codec"`
	Preset             string                     `toml:"preset"`
	Threads            int                        `toml:"threads"`
	WorkDir            string                     `toml:"work_dir"`
	MaxConcurrentJobs  int                        `toml:"max_concurrent_jobs"`
}

func DefaultConfig() Config {
	frameSizes := make(map[string]media.FrameSize, len(defaultFrameSizes))
	for layout, size := range defaultFrameSizes {
		frameSizes[string(layout)] = size
	}
	encode := videobuilder.DefaultEncodeParams()
	return Config{
		VolumeBoost:        voice.MethodGain,
		CaptionRenderer:    videobuilder.RendererBitmap,
		AssetSource:        AssetSourceImages,
		MaxDuration:        DefaultMaxDuration,
		FrameSizes:         frameSizes,
		FPS:                encode.FPS,
		Crossfade:          videobuilder.DefaultCrossfade,
		TransitionOverlap:  videobuilder.DefaultOverlap,
		ImageCount:         3,
		VideoCount:         2,
		MusicGain:          videobuilder.DefaultMusicGain,
		CaptionChars:       script.DefaultCaptionChars,
		ScriptExcerptChars: script.DefaultExcerptChars,
		TTSChars:           voice.DefaultMaxChars,
		MinVoiceBytes:      voice.DefaultMinBytes,
		MinBoostBytes:      voice.DefaultMinBoostBytes,
		FillerColor:        videobuilder.DefaultFillColor,
		VideoCodec:         encode.VideoCodec,
		AudioCodec:         encode.AudioCodec,
		Preset:             encode.Preset,
		Threads:            encode.Threads,
		MaxConcurrentJobs:  1,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func (c Config) Validate() error {
	if !c.VolumeBoost.Valid() {
		return invalid("volume_boost %q", c.VolumeBoost)
	}
	if !c.CaptionRenderer.Valid() {
		return invalid("caption_renderer %q", c.CaptionRenderer)
	}
	if c.AssetSource != AssetSourceImages && c.AssetSource != AssetSourceImageVideo {
		return invalid("asset_source %q", c.AssetSource)
	}
	if c.MaxDuration <= 0 {
		return invalid("max_duration must be positive")
	}
	for key, size := range c.FrameSizes {
		if !Layout(key).Valid() {
			return invalid("unknown layout %q in frame_sizes", key)
		}
		if !size.Valid() {
			return invalid("frame size %s for %s must be positive and even", size, key)
		}
	}
	for _, layout := range Layouts {
		if _, ok := c.FrameSizes[string(layout)]; !ok {
			return invalid("missing frame size for %s", layout)
		}
	}
	if c.FPS < min_fps || c.FPS > max_fps {
		return invalid("fps %d outside %d-%d", c.FPS, min_fps, max_fps)
	}
	if c.Crossfade <= 0 || c.TransitionOverlap < 0 {
		return invalid("crossfade must be positive and transition_overlap not negative")
	}
	if c.ImageCount < 0 || c.VideoCount < 0 {
		return invalid("asset counts must not be negative")
	}
	if c.MusicGain < 0 || c.MusicGain > 1 {
		return invalid("music_gain %.2f outside 0-1", c.MusicGain)
	}
	if c.CaptionChars <= 0 || c.ScriptExcerptChars <= 0 || c.TTSChars <= 0 {
		return invalid("character budgets must be positive")
	}
	if c.MinVoiceBytes < 0 || c.MinBoostBytes < 0 {
		return invalid("size guards must not be negative")
	}
	if c.VideoCodec == "" || c.AudioCodec == "" || c.Preset == "" || c.Threads <= 0 {
		return invalid("encoder parameters are incomplete")
	}
	if c.MaxConcurrentJobs <= 0 {
		return invalid("max_concurrent_jobs must be positive")
	}
	return nil
}

// FrameSize maps a layout to its preset. Only the three known layouts ever
// resolve.
func (c Config) FrameSize(layout Layout) (media.FrameSize, bool) {
	if !layout.Valid() {
		return media.FrameSize{}, false
	}
	size, ok := c.FrameSizes[string(layout)]
	return size, ok
}

func (c Config) encodeParams() videobuilder.EncodeParams {
	params := videobuilder.DefaultEncodeParams()
	params.FPS = c.FPS
	params.VideoCodec = c.VideoCodec
	params.AudioCodec = c.AudioCodec
	params.Preset = c.Preset
	params.Threads = c.Threads
	return params
}

func (c Config) visualOptions(duration float64, size media.FrameSize) videobuilder.VisualOptions {
	return videobuilder.VisualOptions{
		Duration:  duration,
		Size:      size,
		FPS:       c.FPS,
		Crossfade: c.Crossfade,
		Overlap:   c.TransitionOverlap,
		FillColor: c.FillerColor,
	}
}
