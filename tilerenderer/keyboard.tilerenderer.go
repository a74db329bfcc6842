package tilerenderer

import "sort"

// The 88-key board runs A0..C8: 52 naturals of equal width and 36 sharps
// whose offsets follow real keyboard proportions, measured in 22.15ths of
// a white key width.
const (
	whiteKeyCount  = 52
	lowestMidiNum  = 21
	highestMidiNum = 108

	keyUnit          = 22.15
	sharpWidthUnits  = 11
	sharpHeightRatio = 80.0 / 126.27
)

// sharpOffsets[i] is the horizontal offset of the sharp key following
// white key i (mod 7), in key units. Zero means no sharp follows; the
// board starts at A, so the zeros land after E and B.
var sharpOffsets = [7]float64{16.69, 0, 13.97, 16.79, 0, 12.83, 14.76}

// buildKeyboard computes the geometry of all 88 keys for the given video
// width and keyboard strip height. Keys come back sorted by x ascending
// with MIDI numbers 21..108 assigned in that order, which interleaves
// naturals and sharps into true left-to-right keyboard order.
func buildKeyboard(videoWidth, kbTop float64) []Key {
	white := videoWidth / whiteKeyCount
	sharpW := white * sharpWidthUnits / keyUnit
	sharpH := kbTop * sharpHeightRatio

	keys := make([]Key, 0, highestMidiNum-lowestMidiNum+1)
	for i := 0; i < whiteKeyCount; i++ {
		keys = append(keys, Key{
			X:      float64(i) * white,
			Width:  white,
			Height: kbTop,
		})
	}
	for i := 0; i < whiteKeyCount-1; i++ {
		off := sharpOffsets[i%len(sharpOffsets)]
		if off == 0 {
			continue
		}
		keys = append(keys, Key{
			X:      float64(i)*white + off/keyUnit*white,
			Width:  sharpW,
			Height: sharpH,
			Sharp:  true,
		})
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].X < keys[j].X })
	for i := range keys {
		keys[i].Index = i
		keys[i].MidiNum = lowestMidiNum + i
	}
	return keys
}
