package main

import (
	"fmt"
	"io"
	"time"

	"prop-sequence/sequencer"

	"gopkg.in/yaml.v3"
)

func at(ticks uint) time.Duration {
	return sequencer.TickPeriod * time.Duration(ticks)
}

// timeline prints each step with the time it starts, relative to the trigger
func timeline(w io.Writer, cat *sequencer.Catalog) error {
	var start uint
	for i, seq := range cat.Sequences() {
		if _, err := fmt.Fprintf(w, "%d %s (%s)\n", i, seq.Name, at(seq.Ticks())); err != nil {
			return err
		}
		for j, step := range seq.Steps {
			fmt.Fprintf(w, "  %8s  %2d  %5d  %s\n", at(start), j, step.Duration, step.Mask)
			start += step.Duration
		}
	}
	_, err := fmt.Fprintf(w, "end %s\n", at(start))
	return err
}

type stepDoc struct {
	Ticks uint   `yaml:"ticks"`
	Mask  string `yaml:"mask"`
}

type sequenceDoc struct {
	Name  string    `yaml:"name"`
	Ticks uint      `yaml:"ticks"`
	Steps []stepDoc `yaml:"steps"`
}

type showDoc struct {
	TickPeriod string        `yaml:"tick_period"`
	Idle       string        `yaml:"idle"`
	Sequences  []sequenceDoc `yaml:"sequences"`
}

func showDocument(cat *sequencer.Catalog) showDoc {
	doc := showDoc{
		TickPeriod: sequencer.TickPeriod.String(),
		Idle:       cat.Idle().String(),
	}
	for _, seq := range cat.Sequences() {
		sd := sequenceDoc{Name: seq.Name, Ticks: seq.Ticks()}
		for _, step := range seq.Steps {
			sd.Steps = append(sd.Steps, stepDoc{Ticks: step.Duration, Mask: step.Mask.String()})
		}
		doc.Sequences = append(doc.Sequences, sd)
	}
	return doc
}

// dump writes the catalog as YAML
func dump(w io.Writer, cat *sequencer.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(showDocument(cat)); err != nil {
		return err
	}
	return enc.Close()
}

// simulate triggers once, advances ticks times and prints every mask change
func simulate(w io.Writer, cat *sequencer.Catalog, ticks uint) error {
	var last sequencer.Mask
	changes := 0
	rec := sequencer.OutputFunc(func(m sequencer.Mask) error {
		if changes > 0 && m == last {
			return nil
		}
		last = m
		changes++
		return nil
	})

	player := sequencer.NewPlayer(cat, rec)
	player.Trigger()

	printed := 0
	for i := uint(0); i < ticks; i++ {
		frame, err := player.Advance()
		if err != nil {
			return err
		}
		if changes == printed {
			continue
		}
		printed = changes
		if _, err := fmt.Fprintf(w, "%5d %8s  %-5s %s\n", frame.Tick, at(uint(frame.Tick-1)), frame.State(), frame.Mask); err != nil {
			return err
		}
	}
	return nil
}
