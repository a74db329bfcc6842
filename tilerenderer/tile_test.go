package tilerenderer

import (
	"math/rand"
	"testing"

	"pianotiles/midiparser"
)

func testStage() stage {
	return stage{
		width:       1280,
		height:      720,
		kbTop:       90,
		velocity:    128,
		ticksPerSec: 960,
		tileColor:   Color{0.2, 1, 0.2},
	}
}

func TestNewTile_Lengths(t *testing.T) {
	st := testStage()
	// One beat at 120 bpm with 480 ticks per beat: exactly one second.
	tl := newTile(midiparser.Note{Pitch: 60, Start: 0, End: 960, Velocity: 100}, st)

	if tl.topEdgeTime != 0 {
		t.Errorf("topEdgeTime = %v, want 0", tl.topEdgeTime)
	}
	if tl.bottomEdgeTime != 1 {
		t.Errorf("bottomEdgeTime = %v, want 1", tl.bottomEdgeTime)
	}
	if tl.length != 128 {
		t.Errorf("length = %v, want 128", tl.length)
	}
	if tl.opacity != 1 {
		t.Errorf("opacity = %v, want 1", tl.opacity)
	}
}

func TestNewTile_VelocityOpacity(t *testing.T) {
	st := testStage()
	st.showVelocity = true
	tl := newTile(midiparser.Note{Pitch: 60, Start: 0, End: 960, Velocity: 100}, st)
	if want := 100.0 / 127; tl.opacity != want {
		t.Errorf("opacity = %v, want %v", tl.opacity, want)
	}
}

func TestTile_GeometryFalling(t *testing.T) {
	st := testStage()
	tl := newTile(midiparser.Note{Pitch: 60, Start: 960, End: 1920, Velocity: 100}, st)

	// Before the note sounds the tile falls with constant length.
	bottom, height := tl.geometryAt(0, st)
	if bottom != 90+128 || height != 128 {
		t.Errorf("geometryAt(0) = (%v, %v), want (218, 128)", bottom, height)
	}

	// The leading edge meets the keyboard exactly at the note start.
	bottom, height = tl.geometryAt(1, st)
	if bottom != 90 || height != 128 {
		t.Errorf("geometryAt(1) = (%v, %v), want (90, 128)", bottom, height)
	}

	// Halfway through the note: half consumed, bottom pinned.
	bottom, height = tl.geometryAt(1.5, st)
	if bottom != 90 || height != 64 {
		t.Errorf("geometryAt(1.5) = (%v, %v), want (90, 64)", bottom, height)
	}
}

func TestTile_HeightNeverNegative(t *testing.T) {
	st := testStage()
	tl := newTile(midiparser.Note{Pitch: 60, Start: 480, End: 1200, Velocity: 64}, st)

	for tick := 0.0; tick < 4000; tick += 7 {
		_, height := tl.geometryAt(tick/st.ticksPerSec, st)
		if height < 0 {
			t.Fatalf("height = %v at tick %v", height, tick)
		}
	}
}

func TestTile_PhaseTransitions(t *testing.T) {
	st := testStage()
	tl := newTile(midiparser.Note{Pitch: 60, Start: 960, End: 1920, Velocity: 100}, st)

	// Bottom edge enters the frame when 90 + (1-t)*128 <= 720.
	if got := tl.phaseAt(0, st); got != TileActive {
		t.Errorf("phaseAt(0) = %v, want active (already inside a 720px frame)", got)
	}
	if got := tl.phaseAt(2, st); got != TileDone {
		t.Errorf("phaseAt(2) = %v, want done", got)
	}

	// A taller fall distance keeps the tile pending at first.
	far := st
	far.height = 100
	if got := tl.phaseAt(0, far); got != TilePending {
		t.Errorf("phaseAt(0) with 100px frame = %v, want pending", got)
	}
}

func TestTile_DoneIsTerminal(t *testing.T) {
	st := testStage()
	tl := newTile(midiparser.Note{Pitch: 60, Start: 0, End: 480, Velocity: 100}, st)

	tl.advance(10, st)
	if tl.phase != TileDone {
		t.Fatalf("phase = %v, want done", tl.phase)
	}
	// advance never moves the phase backwards, even for an earlier time.
	tl.advance(0, st)
	if tl.phase != TileDone {
		t.Errorf("phase after earlier advance = %v, want done", tl.phase)
	}
}

func TestTile_DeterministicReplay(t *testing.T) {
	st := testStage()
	note := midiparser.Note{Pitch: 60, Start: 240, End: 1680, Velocity: 90}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		tick := rng.Float64() * 3000
		tSec := tick / st.ticksPerSec

		// Direct computation at tick, no history.
		direct := newTile(note, st)
		wantPhase := direct.phaseAt(tSec, st)
		wantBottom, wantHeight := direct.geometryAt(tSec, st)

		// Frame-by-frame replay up to the same tick.
		replayed := newTile(note, st)
		for ft := 0.0; ft <= tick; ft += 32 {
			replayed.advance(ft/st.ticksPerSec, st)
		}
		replayed.advance(tSec, st)

		if replayed.phase != wantPhase {
			t.Fatalf("tick %v: replay phase = %v, direct = %v", tick, replayed.phase, wantPhase)
		}
		gotBottom, gotHeight := replayed.geometryAt(tSec, st)
		if gotBottom != wantBottom || gotHeight != wantHeight {
			t.Fatalf("tick %v: replay geometry = (%v, %v), direct = (%v, %v)",
				tick, gotBottom, gotHeight, wantBottom, wantHeight)
		}
	}
}

func TestTile_ZeroKeyboardHeight(t *testing.T) {
	st := testStage()
	st.kbTop = 0
	tl := newTile(midiparser.Note{Pitch: 60, Start: 0, End: 960, Velocity: 100}, st)

	// The tile reaches the (zero-height) keyboard immediately and is
	// consumed from the first instant on.
	bottom, height := tl.geometryAt(0, st)
	if bottom != 0 || height != 128 {
		t.Errorf("geometryAt(0) = (%v, %v), want (0, 128)", bottom, height)
	}
	_, height = tl.geometryAt(0.5, st)
	if height != 64 {
		t.Errorf("geometryAt(0.5) height = %v, want 64", height)
	}
}
