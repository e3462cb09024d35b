package videobuilder

import (
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/pashonic/globecast/media"
	"github.com/pashonic/globecast/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

const caption = "Attention ! Le café change tout ! Avec Globecast, profitez du meilleur. Le café est une boisson obtenue à partir des graines torréfiées..."

func newWorkspace(t *testing.T) *storage.Workspace {
	ws, err := storage.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(ws.Cleanup)
	return ws
}

func TestWrapLinesFitsWidth(t *testing.T) {
	builder := NewCaptionBuilder(RendererBitmap, "")
	face, err := builder.Face()
	require.NoError(t, err)
	defer face.Close()

	text := caption + " " + strings.Repeat("W", 80)
	for _, size := range []media.FrameSize{{Width: 1080, Height: 1920}, {Width: 1920, Height: 1080}, {Width: 1080, Height: 1080}} {
		maxWidth := size.Width - 2*DefaultMargin
		lines := WrapLines(face, text, maxWidth)
		require.NotEmpty(t, lines)
		for _, line := range lines {
			assert.LessOrEqual(t, font.MeasureString(face, line).Ceil(), maxWidth, line)
		}
		assert.Equal(t, strings.Join(strings.Fields(text), ""), strings.ReplaceAll(strings.Join(lines, ""), " ", ""))
	}
}

func TestWrapLinesEmpty(t *testing.T) {
	face, err := NewCaptionBuilder(RendererBitmap, "").Face()
	require.NoError(t, err)

	assert.Empty(t, WrapLines(face, "   ", 500))
}

func TestLayoutStacksFromBottom(t *testing.T) {
	builder := NewCaptionBuilder(RendererBitmap, "")
	face, err := builder.Face()
	require.NoError(t, err)

	lines := builder.Layout(face, caption, vertical)
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	assert.Equal(t, vertical.Height-DefaultBottomMargin-DefaultLineHeight, last.Y)
	for i, line := range lines {
		assert.Equal(t, lines[0].Y+i*DefaultLineHeight, line.Y)
		assert.GreaterOrEqual(t, line.X, DefaultMargin)
		assert.LessOrEqual(t, line.X+line.Width, vertical.Width-DefaultMargin)
	}
}

func TestBuildBitmapCaption(t *testing.T) {
	ws := newWorkspace(t)
	layer, err := NewCaptionBuilder(RendererBitmap, "").Build(caption, vertical, 12, ws)
	require.NoError(t, err)

	assert.Equal(t, 12.0, layer.Duration)
	require.FileExists(t, layer.Image)
	file, err := os.Open(layer.Image)
	require.NoError(t, err)
	defer file.Close()
	config, err := png.DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, vertical.Width, config.Width)
	assert.Equal(t, vertical.Height, config.Height)
}

func TestBuildDrawtextCaption(t *testing.T) {
	ws := newWorkspace(t)
	layer, err := NewCaptionBuilder(RendererDrawtext, "/nonexistent/font.ttf").Build(caption, vertical, 12, ws)
	require.NoError(t, err)

	assert.Empty(t, layer.Image)
	require.FileExists(t, layer.FontFile)
	require.NotEmpty(t, layer.Lines)
	for _, line := range layer.Lines {
		data, err := os.ReadFile(line.TextFile)
		require.NoError(t, err)
		assert.Equal(t, line.Text, string(data))
	}
	assert.Len(t, ws.Tracked(), len(layer.Lines)+1)
}

func TestRendererValid(t *testing.T) {
	assert.True(t, RendererBitmap.Valid())
	assert.True(t, RendererDrawtext.Valid())
	assert.False(t, Renderer("imagemagick").Valid())
}
