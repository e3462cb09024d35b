package voice

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pashonic/globecast/media"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type Method string

const (
	MethodNone      Method = "none"
	MethodGain      Method = "gain"
	MethodNormalize Method = "normalize"

	DefaultGain          = "6dB"
	DefaultMinBoostBytes = 10000
)

func (m Method) Valid() bool {
	switch m {
	case MethodNone, MethodGain, MethodNormalize:
		return true
	}
	return false
}

type Scratch interface {
	Allocate(ext string) string
	Replace(src, dst string) error
	Remove(path string) error
}

// Normalizer rewrites narration loudness in place. It is an enhancement
// only: any failure leaves the original file untouched.
type Normalizer struct {
	Method   Method
	Gain     string
	MinBytes int64
	Runner   media.Runner
}

func NewNormalizer(method Method, runner media.Runner) *Normalizer {
	return &Normalizer{
		Method:   method,
		Gain:     DefaultGain,
		MinBytes: DefaultMinBoostBytes,
		Runner:   runner,
	}
}

// Args compiles the ffmpeg invocation for the configured method.
func (n *Normalizer) Args(input, output string) []string {
	audio := ffmpeg.Input(input).Audio()
	if n.Method == MethodNormalize {
		audio = audio.Filter("loudnorm", ffmpeg.Args{}, ffmpeg.KwArgs{"I": "-16", "TP": "-1.5", "LRA": "11"})
	} else {
		audio = audio.Filter("volume", ffmpeg.Args{n.Gain})
	}
	return audio.Output(output, ffmpeg.KwArgs{"acodec": "libmp3lame"}).OverWriteOutput().GetArgs()
}

// Normalize reports whether the narration file was rewritten.
func (n *Normalizer) Normalize(ctx context.Context, narration media.Asset, scratch Scratch) bool {
	if n == nil || n.Method == MethodNone || n.Method == "" {
		return false
	}
	if err := n.normalize(ctx, narration.Path, scratch); err != nil {
		log.Printf("[WARN] loudness %s skipped: %v", n.Method, err)
		return false
	}
	return true
}

func (n *Normalizer) normalize(ctx context.Context, input string, scratch Scratch) error {
	output := scratch.Allocate(".mp3")
	if err := n.Runner.Run(ctx, n.Args(input, output)); err != nil {
		scratch.Remove(output)
		return err
	}
	info, err := os.Stat(output)
	if err != nil {
		scratch.Remove(output)
		return err
	}
	if info.Size() <= n.MinBytes {
		scratch.Remove(output)
		return fmt.Errorf("%w: %d bytes", ErrOutputTooSmall, info.Size())
	}
	if err := scratch.Replace(output, input); err != nil {
		scratch.Remove(output)
		return err
	}
	return nil
}
