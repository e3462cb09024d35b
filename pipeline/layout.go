package pipeline

import "github.com/pashonic/globecast/media"

type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
	LayoutSquare     Layout = "square"
)

// Layouts lists the supported presets in form order.
var Layouts = []Layout{LayoutVertical, LayoutHorizontal, LayoutSquare}

var layoutLabels = map[Layout]string{
	LayoutVertical:   "TikTok – Vertical 9:16",
	LayoutHorizontal: "YouTube – Horizontal 16:9",
	LayoutSquare:     "Facebook – Square 1:1",
}

var defaultFrameSizes = map[Layout]media.FrameSize{
	LayoutVertical:   {Width: 1080, Height: 1920},
	LayoutHorizontal: {Width: 1920, Height: 1080},
	LayoutSquare:     {Width: 1080, Height: 1080},
}

func (l Layout) Valid() bool {
	_, ok := layoutLabels[l]
	return ok
}

func (l Layout) Label() string {
	return layoutLabels[l]
}
