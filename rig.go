package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"prop-sequence/audio"
	"prop-sequence/config"
	"prop-sequence/debug"
	"prop-sequence/gpio"
	"prop-sequence/midi"
	"prop-sequence/sequencer"
	"prop-sequence/theme"
)

// rig holds the outputs opened from config
type rig struct {
	outputs []sequencer.Output
	closers []func() error
}

func openRig(cfg *config.Config) (*rig, error) {
	r := &rig{}

	if cfg.Outputs.GPIO.Enabled || cfg.Triggers.GPIO.Enabled {
		if err := gpio.Open(); err != nil {
			return nil, err
		}
		r.closers = append(r.closers, gpio.Close)
	}

	if cfg.Outputs.GPIO.Enabled {
		pins, err := cfg.GPIOPins()
		if err != nil {
			r.Close()
			return nil, err
		}
		out := gpio.NewOutput(pins, cfg.Outputs.GPIO.ActiveLow)
		r.add(out, out.Close)
	}

	if m := cfg.Outputs.MIDI; m.PortName != "" {
		notes, err := cfg.MIDINotes()
		if err != nil {
			r.Close()
			return nil, err
		}
		out, err := midi.OpenOutput(m.PortName, m.Channel, notes)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("midi output: %w", err)
		}
		r.add(out, out.Close)
	}

	if a := cfg.Outputs.Audio; a.File != "" {
		out, err := audio.Load(a.File)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.add(out, out.Close)
	}

	debug.Log("rig", "%d output(s) open", len(r.outputs))
	return r, nil
}

func (r *rig) add(out sequencer.Output, closer func() error) {
	r.outputs = append(r.outputs, out)
	r.closers = append(r.closers, closer)
}

// Output fans out to every opened output plus extra
func (r *rig) Output(extra ...sequencer.Output) sequencer.Output {
	return sequencer.MultiOutput(append(append([]sequencer.Output{}, r.outputs...), extra...)...)
}

// Close releases outputs in reverse opening order
func (r *rig) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			debug.Log("rig", "close: %v", err)
		}
	}
	r.closers = nil
}

// watch prints a line whenever playback moves to another animation, until
// ctx is done or frames is closed
func watch(ctx context.Context, cat *sequencer.Catalog, frames <-chan sequencer.Frame, w io.Writer) {
	last := sequencer.IdleIndex
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if f.Animation == last {
				continue
			}
			last = f.Animation
			if f.State() == sequencer.Idle {
				fmt.Fprintf(w, "tick %d: idle (%s)\n", f.Tick, f.Mask)
				continue
			}
			seq := cat.SequenceFor(f.Animation)
			fmt.Fprintf(w, "tick %d: animation %d %s (%s)\n", f.Tick, f.Animation,
				seq.Name, sequencer.TickPeriod*time.Duration(seq.Ticks()))
		}
	}
}

// loadTheme uses the palette file at path, or the built-in one if path is empty
func loadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return theme.New(theme.Default()), nil
	}
	palette, err := theme.LoadGPL(path)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return theme.New(palette), nil
}
