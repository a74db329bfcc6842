package tilerenderer

import (
	"fmt"
	"strconv"
)

// Color is an RGB color with channels in [0,1].
type Color struct {
	R float64
	G float64
	B float64
}

var (
	colorWhite      = Color{1, 1, 1}
	colorBlack      = Color{0.13, 0.13, 0.13}
	colorBackground = Color{0.17, 0.17, 0.17}
)

func darkerShade(c Color) Color {
	var d = 0.8
	return Color{c.R * d, c.G * d, c.B * d}
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("tilerenderer: invalid color %q, want #rrggbb", s)
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("tilerenderer: invalid color %q: %w", s, err)
		}
		ch[i] = float64(v) / 255
	}
	return Color{ch[0], ch[1], ch[2]}, nil
}

// Key describes one physical piano key. Geometry is in pixels; X grows
// rightward. Naturals span the full keyboard strip height, sharps the
// upper part of it.
type Key struct {
	Index   int
	MidiNum int
	X       float64
	Width   float64
	Height  float64
	Sharp   bool
}

// stage holds the geometry and appearance constants shared by every key
// timeline. It never changes during a render.
type stage struct {
	width        float64 // video width, px
	height       float64 // video height, px
	kbTop        float64 // keyboard strip height, px
	velocity     float64 // tile fall speed, px/sec
	ticksPerSec  float64
	tileColor    Color
	showVelocity bool
}

// screenY converts a world y (measured up from the bottom of the frame)
// plus a rect height into the drawing surface's top-down y.
func (s stage) screenY(worldY, h float64) float64 {
	return s.height - worldY - h
}
