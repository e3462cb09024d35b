package videobuilder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pashonic/globecast/media"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	DefaultCrossfade  = 1.0
	DefaultOverlap    = 1.2
	DefaultFPS        = 24
	DefaultFillColor  = "0x141428"
	infinite_loop     = -1
	seconds_precision = 3
)

type VisualOptions struct {
	Duration  float64
	Size      media.FrameSize
	FPS       int
	Crossfade float64
	Overlap   float64
	FillColor string
}

// Segment is one asset held on screen. Duration includes the transition
// overlap; Offset is where the crossfade into this segment starts on the
// joined timeline.
type Segment struct {
	Asset    media.Asset
	Duration float64
	Offset   float64
	Loops    int
}

type VisualPlan struct {
	Size      media.FrameSize
	Duration  float64
	FPS       int
	Crossfade float64
	FillColor string
	Segments  []Segment
}

// BuildVisual spreads the target duration evenly over the assets. With no
// assets the plan is a flat color filler of the full duration.
func BuildVisual(assets []media.Asset, opts VisualOptions) VisualPlan {
	plan := VisualPlan{
		Size:      opts.Size,
		Duration:  opts.Duration,
		FPS:       opts.FPS,
		Crossfade: opts.Crossfade,
		FillColor: opts.FillColor,
	}
	if plan.FPS <= 0 {
		plan.FPS = DefaultFPS
	}
	if plan.FillColor == "" {
		plan.FillColor = DefaultFillColor
	}
	if len(assets) == 0 || opts.Duration <= 0 {
		return plan
	}

	// Segments must outlast the crossfade or xfade has nothing to blend
	overlap := math.Max(opts.Overlap, opts.Crossfade)
	segmentDuration := opts.Duration/float64(len(assets)) + overlap
	for i, asset := range assets {
		plan.Segments = append(plan.Segments, Segment{
			Asset:    asset,
			Duration: segmentDuration,
			Offset:   float64(i) * (segmentDuration - opts.Crossfade),
			Loops:    loops(asset, segmentDuration),
		})
	}
	return plan
}

// loops counts extra source repetitions needed to fill a segment.
func loops(asset media.Asset, segmentDuration float64) int {
	if asset.Kind != media.KindVideo {
		return 0
	}
	if asset.Duration <= 0 {
		return infinite_loop
	}
	if asset.Duration >= segmentDuration {
		return 0
	}
	return int(math.Ceil(segmentDuration/asset.Duration)) - 1
}

func (p VisualPlan) Filler() bool {
	return len(p.Segments) == 0
}

// Joined is the length of the crossfaded sequence before it is trimmed to
// Duration.
func (p VisualPlan) Joined() float64 {
	if p.Filler() {
		return p.Duration
	}
	total := 0.0
	for _, segment := range p.Segments {
		total += segment.Duration
	}
	return total - float64(len(p.Segments)-1)*p.Crossfade
}

func (p VisualPlan) stream() *ffmpeg.Stream {
	if p.Filler() {
		source := fmt.Sprintf("color=c=%s:s=%s:r=%d:d=%s", p.FillColor, p.Size, p.FPS, seconds(p.Duration))
		return ffmpeg.Input(source, ffmpeg.KwArgs{"f": "lavfi"}).Video()
	}

	joined := p.segmentStream(p.Segments[0])
	for _, segment := range p.Segments[1:] {
		joined = ffmpeg.Filter([]*ffmpeg.Stream{joined, p.segmentStream(segment)}, "xfade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"transition": "fade",
			"duration":   seconds(p.Crossfade),
			"offset":     seconds(segment.Offset),
		})
	}

	out := joined.
		Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(p.Duration)}).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"}).
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": "0", "d": seconds(p.Crossfade)})
	if p.Duration > 2*p.Crossfade {
		out = out.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "out", "st": seconds(p.Duration - p.Crossfade), "d": seconds(p.Crossfade)})
	}
	return out
}

func (p VisualPlan) segmentStream(segment Segment) *ffmpeg.Stream {
	var input *ffmpeg.Stream
	if segment.Asset.Kind == media.KindVideo {
		input = ffmpeg.Input(segment.Asset.Path, ffmpeg.KwArgs{
			"stream_loop": segment.Loops,
			"t":           seconds(segment.Duration),
		})
	} else {
		input = ffmpeg.Input(segment.Asset.Path, ffmpeg.KwArgs{
			"loop":      1,
			"framerate": p.FPS,
			"t":         seconds(segment.Duration),
		})
	}

	// Stretch to fit; xfade needs identical size, rate and pixel format
	return input.Video().
		Filter("scale", ffmpeg.Args{}, ffmpeg.KwArgs{"w": p.Size.Width, "h": p.Size.Height}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(p.FPS)}).
		Filter("format", ffmpeg.Args{"yuv420p"})
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', seconds_precision, 64)
}
