package tilerenderer

import "math"

// TimeBase converts between the MIDI tick domain and the frame/seconds
// domain. All values are constants derived from the first tempo event;
// tempo changes mid-track are not supported.
type TimeBase struct {
	TicksPerSec   float64
	TicksPerFrame float64
	fps           int
}

// NewTimeBase derives a time base from the file's ticks-per-beat, the
// tempo in beats per minute and the output frame rate.
func NewTimeBase(ticksPerBeat int, bpm float64, fps int) TimeBase {
	tps := float64(ticksPerBeat) * bpm / 60
	return TimeBase{
		TicksPerSec:   tps,
		TicksPerFrame: tps / float64(fps),
		fps:           fps,
	}
}

// Seconds converts an absolute tick to seconds.
func (tb TimeBase) Seconds(tick float64) float64 {
	return tick / tb.TicksPerSec
}

// Duration returns the animation duration in seconds for a track whose
// last note ends at lastEndTick.
func (tb TimeBase) Duration(lastEndTick int) float64 {
	return float64(lastEndTick) / tb.TicksPerSec
}

// FrameCount returns the total number of frames to render. Two frames are
// added past the nominal duration: one settling frame and one for the last
// tile's exit.
func (tb TimeBase) FrameCount(lastEndTick int) int {
	return int(math.Floor(tb.Duration(lastEndTick)*float64(tb.fps))) + 2
}
