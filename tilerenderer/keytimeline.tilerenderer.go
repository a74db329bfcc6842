package tilerenderer

import "pianotiles/midiparser"

// keyTimeline owns everything drawn for one physical key: the key rect's
// highlight state and the tiles for every note routed to it. Tiles are
// created once and never added or removed afterwards; only their phase
// changes across frames.
type keyTimeline struct {
	key      Key
	notes    []midiparser.Note
	tiles    []*Tile
	sounding bool
}

func newKeyTimeline(key Key) *keyTimeline {
	return &keyTimeline{key: key}
}

func (k *keyTimeline) assign(n midiparser.Note) {
	k.notes = append(k.notes, n)
}

func (k *keyTimeline) buildTiles(st stage) {
	k.tiles = make([]*Tile, 0, len(k.notes))
	for _, n := range k.notes {
		k.tiles = append(k.tiles, newTile(n, st))
	}
}

// update recomputes this key's state at the given tick and appends its
// draw ops to the frame.
func (k *keyTimeline) update(tick float64, st stage, fr *Frame) {
	t := tick / st.ticksPerSec

	for _, tl := range k.tiles {
		if tl.phase == TileDone {
			continue
		}
		tl.advance(t, st)
		if tl.phase != TileActive {
			continue
		}
		bottom, height := tl.geometryAt(t, st)
		if height <= 0 {
			continue
		}
		fr.Tiles = append(fr.Tiles, RectOp{
			X:       k.key.X,
			Y:       st.screenY(bottom, height),
			W:       k.key.Width,
			H:       height,
			Color:   st.tileColor,
			Opacity: tl.opacity,
			Sharp:   k.key.Sharp,
		})
	}

	// Keyboard highlight: the first note in assignment order that is
	// sounding at this tick wins.
	k.sounding = false
	var current midiparser.Note
	for _, n := range k.notes {
		if float64(n.Start) <= tick && tick < float64(n.End) {
			k.sounding = true
			current = n
			break
		}
	}

	op := RectOp{
		X:       k.key.X,
		W:       k.key.Width,
		H:       k.key.Height,
		Opacity: 1,
		Sharp:   k.key.Sharp,
	}
	if k.key.Sharp {
		op.Y = st.screenY(st.kbTop-k.key.Height, k.key.Height)
		op.Color = colorBlack
	} else {
		op.Y = st.screenY(0, k.key.Height)
		op.Color = colorWhite
	}
	if k.sounding {
		op.Color = st.tileColor
		if k.key.Sharp {
			op.Color = darkerShade(st.tileColor)
		}
		if st.showVelocity {
			op.Opacity = float64(current.Velocity) / 127
		}
	}
	fr.Keys = append(fr.Keys, op)
}
