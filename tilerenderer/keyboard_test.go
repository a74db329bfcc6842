package tilerenderer

import (
	"math"
	"testing"
)

func TestBuildKeyboard_Counts(t *testing.T) {
	keys := buildKeyboard(1280, 90)
	if len(keys) != 88 {
		t.Fatalf("len(keys) = %d, want 88", len(keys))
	}

	naturals, sharps := 0, 0
	for _, k := range keys {
		if k.Sharp {
			sharps++
		} else {
			naturals++
		}
	}
	if naturals != 52 {
		t.Errorf("naturals = %d, want 52", naturals)
	}
	if sharps != 36 {
		t.Errorf("sharps = %d, want 36", sharps)
	}
}

func TestBuildKeyboard_MidiAssignment(t *testing.T) {
	keys := buildKeyboard(1280, 90)

	if keys[0].MidiNum != 21 || keys[0].Sharp {
		t.Errorf("keys[0] = %+v, want natural midi 21 (A0)", keys[0])
	}
	if keys[1].MidiNum != 22 || !keys[1].Sharp {
		t.Errorf("keys[1] = %+v, want sharp midi 22 (A#0)", keys[1])
	}
	if keys[87].MidiNum != 108 || keys[87].Sharp {
		t.Errorf("keys[87] = %+v, want natural midi 108 (C8)", keys[87])
	}

	// Sharp flags must reproduce the piano octave pattern.
	for _, k := range keys {
		wantSharp := map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}[k.MidiNum%12]
		if k.Sharp != wantSharp {
			t.Errorf("midi %d sharp = %v, want %v", k.MidiNum, k.Sharp, wantSharp)
		}
	}
}

func TestBuildKeyboard_Partition(t *testing.T) {
	keys := buildKeyboard(1280, 90)
	white := 1280.0 / 52

	for i := 1; i < len(keys); i++ {
		if keys[i].X <= keys[i-1].X {
			t.Fatalf("x not strictly increasing at index %d: %v then %v", i, keys[i-1].X, keys[i].X)
		}
	}

	// Naturals tile the width exactly, sharps never overlap each other.
	var lastNaturalEnd, lastSharpEnd float64
	lastSharpEnd = -1
	for _, k := range keys {
		if k.Sharp {
			if k.X < lastSharpEnd {
				t.Errorf("sharp at x=%v overlaps previous sharp ending at %v", k.X, lastSharpEnd)
			}
			lastSharpEnd = k.X + k.Width
			continue
		}
		if math.Abs(k.X-lastNaturalEnd) > 1e-9 {
			t.Errorf("natural at x=%v, want %v (gap or overlap)", k.X, lastNaturalEnd)
		}
		lastNaturalEnd = k.X + white
	}
	if math.Abs(lastNaturalEnd-1280) > 1e-9 {
		t.Errorf("naturals end at %v, want 1280", lastNaturalEnd)
	}
}

func TestBuildKeyboard_SharpDimensions(t *testing.T) {
	keys := buildKeyboard(1280, 90)
	white := 1280.0 / 52

	for _, k := range keys {
		if !k.Sharp {
			if k.Width != white || k.Height != 90 {
				t.Fatalf("natural %+v, want width %v height 90", k, white)
			}
			continue
		}
		if math.Abs(k.Width-white*11/22.15) > 1e-9 {
			t.Errorf("sharp width = %v, want %v", k.Width, white*11/22.15)
		}
		if math.Abs(k.Height-90*80/126.27) > 1e-9 {
			t.Errorf("sharp height = %v, want %v", k.Height, 90*80/126.27)
		}
	}
}

func TestBuildKeyboard_ZeroHeight(t *testing.T) {
	keys := buildKeyboard(1280, 0)
	if len(keys) != 88 {
		t.Fatalf("len(keys) = %d, want 88", len(keys))
	}
	for _, k := range keys {
		if k.Height != 0 {
			t.Errorf("midi %d height = %v, want 0", k.MidiNum, k.Height)
		}
	}
}
