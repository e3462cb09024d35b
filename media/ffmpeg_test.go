package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProbeDuration(t *testing.T) {

	// Test valid output
	duration, err := ParseProbeDuration([]byte(`{"format": {"duration": "20.064000"}}`))
	assert.Nil(t, err)
	assert.InDelta(t, 20.064, duration, 0.0001)

	// Test missing duration
	duration, err = ParseProbeDuration([]byte(`{"format": {}}`))
	assert.NotNil(t, err)
	assert.EqualValues(t, 0, duration)

	// Test zero duration
	_, err = ParseProbeDuration([]byte(`{"format": {"duration": "0.000000"}}`))
	assert.NotNil(t, err)

	// Test garbage
	_, err = ParseProbeDuration([]byte(`not json`))
	assert.NotNil(t, err)
}

func TestNewBinaryDefaults(t *testing.T) {
	binary := NewBinary("", "")
	assert.Equal(t, "ffmpeg", binary.FFmpegPath)
	assert.Equal(t, "ffprobe", binary.FFprobePath)

	binary = NewBinary("/opt/ffmpeg/bin/ffmpeg", "/opt/ffmpeg/bin/ffprobe")
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", binary.FFmpegPath)
	assert.Equal(t, "/opt/ffmpeg/bin/ffprobe", binary.FFprobePath)
}

func TestFrameSize(t *testing.T) {
	assert.True(t, FrameSize{Width: 1080, Height: 1920}.Valid())
	assert.False(t, FrameSize{Width: 1081, Height: 1920}.Valid())
	assert.False(t, FrameSize{}.Valid())
	assert.Equal(t, "1920x1080", FrameSize{Width: 1920, Height: 1080}.String())
}
