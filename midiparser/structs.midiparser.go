package midiparser

// Note is a single sounding interval extracted from a MIDI file.
// Start and End are absolute ticks; End is always greater than Start.
type Note struct {
	Pitch    int `json:"pitch"`
	Start    int `json:"start"`
	End      int `json:"end"`
	Velocity int `json:"velocity"`
}

// Tempo is a tempo event at an absolute tick.
type Tempo struct {
	Tick int     `json:"tick"`
	BPM  float64 `json:"bpm"`
}

// ParsedMidi is the note-event view of a MIDI file: all tracks merged,
// notes sorted by (start, -pitch).
type ParsedMidi struct {
	Notes        []Note  `json:"notes"`
	TicksPerBeat int     `json:"ticksPerBeat"`
	Tempos       []Tempo `json:"tempos"`
}

// Tempo returns the BPM of the first tempo event. Later tempo changes are
// recorded in Tempos but not otherwise honored; renders assume a single
// tempo for the whole track.
func (p *ParsedMidi) Tempo() float64 {
	if len(p.Tempos) == 0 {
		return defaultBPM
	}
	return p.Tempos[0].BPM
}
