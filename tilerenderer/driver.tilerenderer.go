// Package tilerenderer converts timed note events into a frame-by-frame
// falling-tile animation over an 88-key keyboard and encodes it to video.
package tilerenderer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pianotiles/config"
	"pianotiles/midiparser"
)

const (
	progressEvery     = 300
	cleanupWorkers    = 100
	minLabelKeyboardH = 24
)

var (
	// ErrKeyboardRatio reports a keyboard ratio outside [0,1).
	ErrKeyboardRatio = errors.New("tilerenderer: keyboard ratio must be in [0,1)")
	// ErrNoRenderableNotes reports input with no notes in the 88-key range.
	ErrNoRenderableNotes = errors.New("tilerenderer: no notes in the 88-key range")
)

// Renderer drives the animation: it owns the 88 key timelines and walks
// the fixed frame sequence, composing one Frame per tick and handing it to
// the rasterizer and encoder in strict order.
type Renderer struct {
	st        stage
	tb        TimeBase
	keys      []Key
	timelines []*keyTimeline
	framesDir string
	lastEnd   int
	log       *slog.Logger
	encode    func(framesDir, outputPath string, fps int) error
}

// New builds a renderer for the parsed MIDI file. The configuration must
// already be validated, but the keyboard ratio is checked again here so a
// programmatically built config fails before any frame is produced.
func New(cfg *config.Config, parsed *midiparser.ParsedMidi, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Keyboard.Ratio < 0 || cfg.Keyboard.Ratio >= 1 {
		return nil, fmt.Errorf("%w, got %v", ErrKeyboardRatio, cfg.Keyboard.Ratio)
	}
	tileColor, err := ParseColor(cfg.Tile.Color)
	if err != nil {
		return nil, err
	}

	tb := NewTimeBase(parsed.TicksPerBeat, parsed.Tempo(), cfg.Video.FPS)
	st := stage{
		width:        float64(cfg.Video.Width),
		height:       float64(cfg.Video.Height),
		kbTop:        cfg.Keyboard.Ratio * float64(cfg.Video.Height),
		velocity:     cfg.Tile.Velocity,
		ticksPerSec:  tb.TicksPerSec,
		tileColor:    tileColor,
		showVelocity: cfg.Tile.ShowVelocity,
	}

	keys := buildKeyboard(st.width, st.kbTop)
	timelines := make([]*keyTimeline, len(keys))
	for i, k := range keys {
		timelines[i] = newKeyTimeline(k)
	}

	routed, lastEnd := 0, 0
	for _, n := range parsed.Notes {
		if n.Pitch < lowestMidiNum || n.Pitch > highestMidiNum {
			continue
		}
		timelines[n.Pitch-lowestMidiNum].assign(n)
		routed++
		if n.End > lastEnd {
			lastEnd = n.End
		}
	}
	if routed == 0 {
		return nil, ErrNoRenderableNotes
	}
	for _, kt := range timelines {
		kt.buildTiles(st)
	}

	return &Renderer{
		st:        st,
		tb:        tb,
		keys:      keys,
		timelines: timelines,
		framesDir: cfg.Render.FramesDir,
		lastEnd:   lastEnd,
		log:       logger,
		encode:    encodeVideo,
	}, nil
}

// Duration returns the animation duration in seconds.
func (r *Renderer) Duration() float64 {
	return r.tb.Duration(r.lastEnd)
}

// FrameCount returns the total number of frames the render produces.
func (r *Renderer) FrameCount() int {
	return r.tb.FrameCount(r.lastEnd)
}

// composeFrame builds the Frame for a single tick. The frame's state is a
// pure function of the tick, not of previously composed frames.
func (r *Renderer) composeFrame(tick float64) *Frame {
	fr := NewFrame(r.st.width, r.st.height)

	boundaryY := r.st.screenY(r.st.kbTop, 0)
	fr.Lines = append(fr.Lines, LineOp{
		X1: 0, Y1: boundaryY, X2: r.st.width, Y2: boundaryY,
		Width: 1, Color: colorWhite, Opacity: 0.3,
	})

	for _, kt := range r.timelines {
		kt.update(tick, r.st, fr)
	}

	if r.st.kbTop >= minLabelKeyboardH {
		for _, k := range r.keys {
			if k.Sharp || k.MidiNum%12 != 0 {
				continue
			}
			fr.Labels = append(fr.Labels, LabelOp{
				X:       k.X + k.Width/6,
				Y:       r.st.height - 10,
				Text:    fmt.Sprintf("C%d", k.MidiNum/12-1),
				Opacity: 0.5,
			})
		}
	}

	return fr
}

// Render runs the whole frame loop and encodes the result to outputPath.
// Frames are composed, rasterized and written strictly one after another;
// a failing frame write or encoder run aborts the render.
func (r *Renderer) Render(outputPath string) error {
	frameCount := r.FrameCount()

	framesDir, err := r.makeFramesDir()
	if err != nil {
		return err
	}

	labelSize := r.st.width / whiteKeyCount / 2
	ras, err := newRasterizer(int(r.st.width), int(r.st.height), labelSize)
	if err != nil {
		return err
	}

	r.log.Info("start rendering",
		slog.Int("frames", frameCount),
		slog.Float64("duration_sec", r.Duration()))

	for i := 0; i < frameCount; i++ {
		tick := float64(i) * r.tb.TicksPerFrame
		ras.draw(r.composeFrame(tick))
		path := filepath.Join(framesDir, fmt.Sprintf("fr%05d.png", i+1))
		if err := ras.savePNG(path); err != nil {
			return fmt.Errorf("tilerenderer: write frame %d: %w", i, err)
		}
		if (i+1)%progressEvery == 0 {
			r.log.Info("rendering", slog.Int("frame", i+1), slog.Int("total", frameCount))
		}
	}

	if err := r.encode(framesDir, outputPath, r.tb.fps); err != nil {
		return err
	}
	if err := cleanupFrames(framesDir); err != nil {
		return fmt.Errorf("tilerenderer: cleanup frames: %w", err)
	}

	r.log.Info("render complete", slog.String("output", outputPath))
	return nil
}

// makeFramesDir creates a directory for this render's frames under the
// configured base. Each render gets its own directory, so overlapping
// renders built from the same config never touch each other's frames.
func (r *Renderer) makeFramesDir() (string, error) {
	if err := os.MkdirAll(r.framesDir, 0755); err != nil {
		return "", fmt.Errorf("tilerenderer: create frames dir: %w", err)
	}
	dir, err := os.MkdirTemp(r.framesDir, "render")
	if err != nil {
		return "", fmt.Errorf("tilerenderer: create frames dir: %w", err)
	}
	return dir, nil
}

// cleanupFrames removes the intermediate PNG frames and their directory.
func cleanupFrames(framesDir string) error {
	files, err := filepath.Glob(filepath.Join(framesDir, "fr*.png"))
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(cleanupWorkers)
	for _, f := range files {
		f := f
		g.Go(func() error {
			return os.Remove(f)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return os.Remove(framesDir)
}
