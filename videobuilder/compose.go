package videobuilder

import (
	"errors"
	"fmt"
	"math"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const duration_tolerance = 1e-6

var errDurationMismatch = errors.New("track durations differ")

type EncodeParams struct {
	FPS         int
	VideoCodec  string
	AudioCodec  string
	Preset      string
	Threads     int
	PixelFormat string
}

func DefaultEncodeParams() EncodeParams {
	return EncodeParams{
		FPS:         DefaultFPS,
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		Preset:      "medium",
		Threads:     2,
		PixelFormat: "yuv420p",
	}
}

// Composition is the full set of layers for one output file: visual track,
// optional caption on top, and the mixed audio.
type Composition struct {
	Visual  VisualPlan
	Audio   AudioPlan
	Caption *CaptionLayer
	Output  string
	Params  EncodeParams
}

func (c Composition) Duration() float64 {
	return c.Visual.Duration
}

func (c Composition) Validate() error {
	if c.Output == "" {
		return errors.New("no output path")
	}
	if !c.Visual.Size.Valid() {
		return fmt.Errorf("invalid frame size %s", c.Visual.Size)
	}
	if c.Visual.Duration <= 0 {
		return fmt.Errorf("invalid duration %s", seconds(c.Visual.Duration))
	}
	if math.Abs(c.Audio.Duration-c.Visual.Duration) > duration_tolerance {
		return fmt.Errorf("%w: visual %s, audio %s", errDurationMismatch, seconds(c.Visual.Duration), seconds(c.Audio.Duration))
	}
	if c.Caption != nil && math.Abs(c.Caption.Duration-c.Visual.Duration) > duration_tolerance {
		return fmt.Errorf("%w: visual %s, caption %s", errDurationMismatch, seconds(c.Visual.Duration), seconds(c.Caption.Duration))
	}
	return nil
}

func (c Composition) stream() *ffmpeg.Stream {
	video := c.Visual.stream()
	if c.Caption != nil {
		video = c.Caption.apply(video, c.Visual.FPS)
	}
	audio := c.Audio.stream()

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, c.Output, ffmpeg.KwArgs{
		"c:v":      c.Params.VideoCodec,
		"c:a":      c.Params.AudioCodec,
		"preset":   c.Params.Preset,
		"threads":  c.Params.Threads,
		"r":        c.Params.FPS,
		"pix_fmt":  c.Params.PixelFormat,
		"t":        seconds(c.Duration()),
		"movflags": "+faststart",
	}).OverWriteOutput()
}

// Args compiles the composition into an ffmpeg command line. ffmpeg-go
// panics on graphs it cannot express, such as one input feeding two
// chains; that is reported as an error.
func (c Composition) Args() (args []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compile filter graph: %v", r)
		}
	}()
	return c.stream().GetArgs(), nil
}

func (l *CaptionLayer) apply(video *ffmpeg.Stream, fps int) *ffmpeg.Stream {
	if l.Renderer == RendererDrawtext {
		for _, line := range l.Lines {
			video = video.Filter("drawtext", ffmpeg.Args{}, ffmpeg.KwArgs{
				"textfile":    line.TextFile,
				"fontfile":    l.FontFile,
				"fontsize":    l.FontSize,
				"fontcolor":   "white",
				"borderw":     l.Stroke,
				"bordercolor": "black",
				"expansion":   "none",
				"x":           "(w-text_w)/2",
				"y":           line.Y,
			})
		}
		return video
	}

	overlay := ffmpeg.Input(l.Image, ffmpeg.KwArgs{
		"loop":      1,
		"framerate": fps,
		"t":         seconds(l.Duration),
	}).Video()
	return ffmpeg.Filter([]*ffmpeg.Stream{video, overlay}, "overlay", ffmpeg.Args{}, ffmpeg.KwArgs{
		"x":        0,
		"y":        0,
		"shortest": 1,
	})
}
