package tilerenderer

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const tileBorderRadius float64 = 6

// rasterizer turns Frame draw ops into pixels on a reusable gg context.
type rasterizer struct {
	dc   *gg.Context
	face font.Face
}

func newRasterizer(w, h int, labelSize float64) (*rasterizer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("tilerenderer: parse font: %w", err)
	}
	return &rasterizer{
		dc:   gg.NewContext(w, h),
		face: truetype.NewFace(f, &truetype.Options{Size: labelSize}),
	}, nil
}

func setRGBColor(dc *gg.Context, c Color) {
	dc.SetRGB(c.R, c.G, c.B)
}

func (r *rasterizer) draw(fr *Frame) {
	dc := r.dc

	setRGBColor(dc, fr.Background)
	dc.DrawRectangle(0, 0, fr.Width, fr.Height)
	dc.Fill()

	for _, l := range fr.Lines {
		dc.SetRGBA(l.Color.R, l.Color.G, l.Color.B, l.Opacity)
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	// Naturals first, sharps on top of them.
	for _, op := range fr.Keys {
		if !op.Sharp {
			r.fillRect(op)
		}
	}
	for _, op := range fr.Keys {
		if op.Sharp {
			r.fillRect(op)
		}
	}

	for _, l := range fr.Labels {
		dc.SetFontFace(r.face)
		dc.SetRGBA(0, 0, 0, l.Opacity)
		dc.DrawString(l.Text, l.X, l.Y)
	}

	for _, op := range fr.Tiles {
		r.fillTile(op)
	}
}

func (r *rasterizer) fillRect(op RectOp) {
	dc := r.dc
	dc.DrawRectangle(op.X, op.Y, op.W, op.H)
	dc.SetRGBA(op.Color.R, op.Color.G, op.Color.B, op.Opacity)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func (r *rasterizer) fillTile(op RectOp) {
	dc := r.dc
	radius := tileBorderRadius
	if op.H/2 < radius {
		radius = op.H / 2
	}
	if op.W/2 < radius {
		radius = op.W / 2
	}
	dc.DrawRoundedRectangle(op.X, op.Y, op.W, op.H, radius)
	dc.SetRGBA(op.Color.R, op.Color.G, op.Color.B, op.Opacity)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func (r *rasterizer) savePNG(path string) error {
	return r.dc.SavePNG(path)
}
