package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	default_ffmpeg_path  = "ffmpeg"
	default_ffprobe_path = "ffprobe"
	stderr_tail_bytes    = 2048
)

// Runner executes one ffmpeg invocation with the given argument list.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Prober reports the playable duration of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Binary binds the ffmpeg/ffprobe executables to explicit paths.
type Binary struct {
	FFmpegPath  string
	FFprobePath string
}

func NewBinary(ffmpegPath, ffprobePath string) Binary {
	if ffmpegPath == "" {
		ffmpegPath = default_ffmpeg_path
	}
	if ffprobePath == "" {
		ffprobePath = default_ffprobe_path
	}
	return Binary{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

func (b Binary) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, b.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String(), stderr_tail_bytes))
	}
	return nil
}

func (b Binary) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, b.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w: %s", path, err, tail(stderr.String(), stderr_tail_bytes))
	}
	return ParseProbeDuration(stdout.Bytes())
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ParseProbeDuration extracts format.duration from ffprobe JSON output.
func ParseProbeDuration(data []byte) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("invalid ffprobe output: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", out.Format.Duration, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("invalid duration: %f", duration)
	}
	return duration, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
