package tilerenderer

// Frame is the composed geometry of a single animation instant: a list of
// draw ops accumulated by the key timelines, plus the static decoration
// added by the driver. It is recomputed every frame and never retained.
// All coordinates are in the drawing surface's space, y down.
type Frame struct {
	Width      float64
	Height     float64
	Background Color
	Keys       []RectOp  // keyboard keys; sharps are drawn over naturals
	Tiles      []RectOp  // falling tiles
	Lines      []LineOp  // keyboard boundary
	Labels     []LabelOp // octave markers
}

// RectOp draws a filled rectangle with a thin black outline. Sharp marks
// ops belonging to sharp keys so the rasterizer can order and shape them.
type RectOp struct {
	X, Y, W, H float64
	Color      Color
	Opacity    float64
	Sharp      bool
}

// LineOp draws a straight line.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
	Opacity        float64
}

// LabelOp draws a text label.
type LabelOp struct {
	X, Y    float64
	Text    string
	Opacity float64
}

// NewFrame returns an empty frame for the given video size.
func NewFrame(w, h float64) *Frame {
	return &Frame{Width: w, Height: h, Background: colorBackground}
}
