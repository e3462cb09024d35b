package videobuilder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pashonic/globecast/media"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type StillSink interface {
	WriteFile(data []byte, ext string) (string, error)
}

// PrepareStill decodes an image and stretches it to exactly the frame size,
// writing the result as PNG. The source asset is left in place.
func PrepareStill(asset media.Asset, size media.FrameSize, sink StillSink) (media.Asset, error) {
	file, err := os.Open(asset.Path)
	if err != nil {
		return media.Asset{}, err
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return media.Asset{}, fmt.Errorf("decode %s: %w", asset.Path, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return media.Asset{}, err
	}
	path, err := sink.WriteFile(buf.Bytes(), ".png")
	if err != nil {
		return media.Asset{}, err
	}
	return media.Asset{Path: path, Kind: media.KindImage}, nil
}
