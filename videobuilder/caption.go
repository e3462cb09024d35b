package videobuilder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/pashonic/globecast/media"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"
)

type Renderer string

const (
	RendererBitmap   Renderer = "bitmap"
	RendererDrawtext Renderer = "drawtext"
)

const (
	DefaultFontSize     = 48
	DefaultMargin       = 60
	DefaultLineHeight   = 55
	DefaultBottomMargin = 80
	DefaultStroke       = 2
)

func (r Renderer) Valid() bool {
	return r == RendererBitmap || r == RendererDrawtext
}

type CaptionSink interface {
	WriteFile(data []byte, ext string) (string, error)
}

type CaptionLine struct {
	Text     string
	TextFile string
	X        int
	Y        int
	Width    int
}

// CaptionLayer is a caption ready to be overlaid on the visual track. A
// bitmap layer carries Image, a drawtext layer carries one text file per
// line plus the font to draw it with.
type CaptionLayer struct {
	Renderer Renderer
	Size     media.FrameSize
	Duration float64
	Image    string
	FontFile string
	FontSize int
	Stroke   int
	Lines    []CaptionLine
}

type CaptionBuilder struct {
	Renderer     Renderer
	FontPath     string
	FontSize     int
	Margin       int
	LineHeight   int
	BottomMargin int
	Stroke       int
}

func NewCaptionBuilder(renderer Renderer, fontPath string) *CaptionBuilder {
	return &CaptionBuilder{
		Renderer:     renderer,
		FontPath:     fontPath,
		FontSize:     DefaultFontSize,
		Margin:       DefaultMargin,
		LineHeight:   DefaultLineHeight,
		BottomMargin: DefaultBottomMargin,
		Stroke:       DefaultStroke,
	}
}

// fontData returns the configured font, falling back to the bundled Go Bold
// when the path is empty or unreadable.
func (b *CaptionBuilder) fontData() ([]byte, bool) {
	if b.FontPath != "" {
		data, err := os.ReadFile(b.FontPath)
		if err == nil {
			return data, true
		}
	}
	return gobold.TTF, false
}

func (b *CaptionBuilder) Face() (font.Face, error) {
	data, custom := b.fontData()
	ttf, err := truetype.Parse(data)
	if err != nil && custom {
		ttf, err = truetype.Parse(gobold.TTF)
	}
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(b.FontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Layout wraps text to the frame and positions each line centered, stacked
// up from the bottom margin.
func (b *CaptionBuilder) Layout(face font.Face, text string, size media.FrameSize) []CaptionLine {
	wrapped := WrapLines(face, text, size.Width-2*b.Margin)
	top := size.Height - len(wrapped)*b.LineHeight - b.BottomMargin
	lines := make([]CaptionLine, 0, len(wrapped))
	for i, line := range wrapped {
		width := font.MeasureString(face, line).Ceil()
		lines = append(lines, CaptionLine{
			Text:  line,
			X:     (size.Width - width) / 2,
			Y:     top + i*b.LineHeight,
			Width: width,
		})
	}
	return lines
}

func (b *CaptionBuilder) Build(text string, size media.FrameSize, duration float64, sink CaptionSink) (*CaptionLayer, error) {
	face, err := b.Face()
	if err != nil {
		return nil, fmt.Errorf("load caption font: %w", err)
	}
	defer face.Close()

	layer := &CaptionLayer{
		Renderer: b.Renderer,
		Size:     size,
		Duration: duration,
		FontSize: b.FontSize,
		Stroke:   b.Stroke,
		Lines:    b.Layout(face, text, size),
	}

	if b.Renderer == RendererDrawtext {
		return layer, b.writeTextFiles(layer, sink)
	}
	data, err := b.render(face, layer)
	if err != nil {
		return nil, err
	}
	layer.Image, err = sink.WriteFile(data, ".png")
	if err != nil {
		return nil, err
	}
	return layer, nil
}

func (b *CaptionBuilder) writeTextFiles(layer *CaptionLayer, sink CaptionSink) error {
	fontData, custom := b.fontData()
	if custom {
		layer.FontFile = b.FontPath
	} else {
		path, err := sink.WriteFile(fontData, ".ttf")
		if err != nil {
			return err
		}
		layer.FontFile = path
	}

	for i := range layer.Lines {
		path, err := sink.WriteFile([]byte(layer.Lines[i].Text), ".txt")
		if err != nil {
			return err
		}
		layer.Lines[i].TextFile = path
	}
	return nil
}

// render draws white text with a black outline on a transparent frame.
func (b *CaptionBuilder) render(face font.Face, layer *CaptionLayer) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, layer.Size.Width, layer.Size.Height))
	ascent := face.Metrics().Ascent.Ceil()
	outline := image.NewUniform(color.Black)
	fill := image.NewUniform(color.White)

	for _, line := range layer.Lines {
		baseline := line.Y + ascent
		for dx := -b.Stroke; dx <= b.Stroke; dx++ {
			for dy := -b.Stroke; dy <= b.Stroke; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				drawString(img, face, outline, line.Text, line.X+dx, baseline+dy)
			}
		}
		drawString(img, face, fill, line.Text, line.X, baseline)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawString(dst *image.RGBA, face font.Face, src image.Image, text string, x, y int) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	drawer.DrawString(text)
}

// WrapLines greedily packs words into lines no wider than maxWidth. Words
// that alone exceed maxWidth are split between runes.
func WrapLines(face font.Face, text string, maxWidth int) []string {
	fits := func(s string) bool {
		return font.MeasureString(face, s).Ceil() <= maxWidth
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if fits(candidate) {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for !fits(word) {
			head := splitToWidth(word, fits)
			lines = append(lines, head)
			word = strings.TrimPrefix(word, head)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// splitToWidth returns the longest rune prefix of word that fits, never less
// than one rune.
func splitToWidth(word string, fits func(string) bool) string {
	runes := []rune(word)
	n := 1
	for n < len(runes) && fits(string(runes[:n+1])) {
		n++
	}
	return string(runes[:n])
}
