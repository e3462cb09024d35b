package videobuilder

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashonic/globecast/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareStillStretchesToFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for x := 0; x < 120; x++ {
		for y := 0; y < 40; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "source.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, src))
	require.NoError(t, file.Close())

	ws := newWorkspace(t)
	square := media.FrameSize{Width: 1080, Height: 1080}
	still, err := PrepareStill(media.Asset{Path: path, Kind: media.KindImage}, square, ws)
	require.NoError(t, err)

	assert.Equal(t, media.KindImage, still.Kind)
	assert.FileExists(t, path)
	out, err := os.Open(still.Path)
	require.NoError(t, err)
	defer out.Close()
	img, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1080, 1080), img.Bounds())
	r, _, _, a := img.At(540, 540).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0))
}

func TestPrepareStillRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := PrepareStill(media.Asset{Path: path, Kind: media.KindImage}, vertical, newWorkspace(t))
	assert.Error(t, err)
}
