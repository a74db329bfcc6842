package tilerenderer

import "pianotiles/midiparser"

// TilePhase is the lifecycle phase of a falling tile. Transitions only run
// forward: Pending -> Active -> Done, and Done is terminal.
type TilePhase int

const (
	TilePending TilePhase = iota
	TileActive
	TileDone
)

func (p TilePhase) String() string {
	switch p {
	case TilePending:
		return "pending"
	case TileActive:
		return "active"
	case TileDone:
		return "done"
	}
	return "unknown"
}

// Tile is the falling rectangle for one note. Edge times are in seconds;
// the tile's drawn geometry is a pure function of the current time, so
// only the phase mutates across frames.
type Tile struct {
	topEdgeTime    float64 // note start
	bottomEdgeTime float64 // note end
	length         float64 // visual height, px
	opacity        float64
	phase          TilePhase
}

func newTile(n midiparser.Note, st stage) *Tile {
	start := float64(n.Start) / st.ticksPerSec
	end := float64(n.End) / st.ticksPerSec
	opacity := 1.0
	if st.showVelocity {
		opacity = float64(n.Velocity) / 127
	}
	return &Tile{
		topEdgeTime:    start,
		bottomEdgeTime: end,
		length:         (end - start) * st.velocity,
		opacity:        opacity,
	}
}

// geometryAt returns the tile's bottom edge and drawn height at t seconds,
// in world coordinates (y up from the bottom of the frame). The bottom
// edge falls at constant velocity until it reaches the keyboard boundary;
// from then on it stays pinned there while the height shrinks, so the top
// edge keeps moving at the same velocity.
func (tl *Tile) geometryAt(t float64, st stage) (bottom, height float64) {
	bottom = st.kbTop + (tl.topEdgeTime-t)*st.velocity
	if bottom > st.kbTop {
		return bottom, tl.length
	}
	height = tl.length - (t-tl.topEdgeTime)*st.velocity
	if height < 0 {
		height = 0
	}
	return st.kbTop, height
}

// phaseAt returns the phase the tile has at t seconds, independent of any
// previously observed time. The height hits zero exactly when t passes the
// bottom edge time, and the tile scrolls into frame when its bottom edge
// crosses the top of the video.
func (tl *Tile) phaseAt(t float64, st stage) TilePhase {
	if t >= tl.bottomEdgeTime {
		return TileDone
	}
	bottom, _ := tl.geometryAt(t, st)
	if bottom <= st.height {
		return TileActive
	}
	return TilePending
}

// advance is the single mutation point for the phase. It only ever moves
// the phase forward, so a Done tile stays Done.
func (tl *Tile) advance(t float64, st stage) {
	if next := tl.phaseAt(t, st); next > tl.phase {
		tl.phase = next
	}
}
