// Package midiparser reads Standard MIDI Files into a flat list of note
// events with absolute tick times.
package midiparser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120

var (
	// ErrNoNotes is returned for files that contain no note events at all.
	ErrNoNotes = errors.New("midiparser: file contains no notes")
	// ErrNotMetric is returned for files using SMPTE time division, which
	// has no ticks-per-beat value to derive a time base from.
	ErrNotMetric = errors.New("midiparser: non-metric time format")
)

// openKey identifies a sounding note awaiting its note-off.
type openKey struct {
	channel uint8
	key     uint8
}

// Parse reads an SMF stream and merges every track's notes into one list.
// A note-on with velocity zero counts as a note-off. Notes still open at
// the end of their track are dropped.
func Parse(r io.Reader) (*ParsedMidi, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("midiparser: read smf: %w", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrNotMetric
	}

	parsed := &ParsedMidi{
		TicksPerBeat: int(mt.Resolution()),
	}

	for _, tc := range s.TempoChanges() {
		parsed.Tempos = append(parsed.Tempos, Tempo{Tick: int(tc.AbsTicks), BPM: tc.BPM})
	}

	var notes []Note
	for _, track := range s.Tracks {
		// Pending note-ons per (channel, key); note-off closes the
		// oldest one, so chained repeats pair up in order.
		open := map[openKey][]int{}
		absTick := 0

		for _, ev := range track {
			absTick += int(ev.Delta)

			var ch, key, vel uint8
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				k := openKey{channel: ch, key: key}
				notes = append(notes, Note{
					Pitch:    int(key),
					Start:    absTick,
					Velocity: int(vel),
				})
				open[k] = append(open[k], len(notes)-1)
			case ev.Message.GetNoteEnd(&ch, &key):
				k := openKey{channel: ch, key: key}
				pending := open[k]
				if len(pending) == 0 {
					continue
				}
				notes[pending[0]].End = absTick
				open[k] = pending[1:]
			}
		}
	}

	// Zero-length and unterminated notes have no sounding interval.
	for _, n := range notes {
		if n.End > n.Start {
			parsed.Notes = append(parsed.Notes, n)
		}
	}

	if len(parsed.Notes) == 0 {
		return nil, ErrNoNotes
	}

	sort.SliceStable(parsed.Notes, func(i, j int) bool {
		a, b := parsed.Notes[i], parsed.Notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Pitch > b.Pitch
	})

	return parsed, nil
}

// ParseFile reads and parses the MIDI file at path.
func ParseFile(path string) (*ParsedMidi, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("midiparser: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}
