// Package gpio drives the prop's relays and reads its sensor through the
// Raspberry Pi GPIO registers (go-rpio).
package gpio

import (
	"fmt"
	"sort"

	"prop-sequence/debug"
	"prop-sequence/sequencer"

	"github.com/stianeikeland/go-rpio/v4"
)

// Open maps the GPIO registers. Call once before creating outputs or triggers.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("gpio open: %w", err)
	}
	return nil
}

// Close unmaps the GPIO registers
func Close() error {
	return rpio.Close()
}

// pin is the part of rpio.Pin an output needs
type pin interface {
	High()
	Low()
}

type channelPin struct {
	bit sequencer.Mask
	pin pin
}

// Output drives one pin per channel. With activeLow a channel is on when its
// pin is pulled low (relay boards sinking current).
type Output struct {
	pins      []channelPin
	activeLow bool
}

// NewOutput configures the BCM pins as outputs and switches every channel off
func NewOutput(pins map[sequencer.Mask]int, activeLow bool) *Output {
	wired := make(map[sequencer.Mask]pin, len(pins))
	for bit, num := range pins {
		p := rpio.Pin(num)
		p.Output()
		wired[bit] = p
		debug.Log("gpio", "%s -> BCM%d", bit, num)
	}
	return newOutput(wired, activeLow)
}

func newOutput(pins map[sequencer.Mask]pin, activeLow bool) *Output {
	o := &Output{activeLow: activeLow}
	for bit, p := range pins {
		o.pins = append(o.pins, channelPin{bit: bit, pin: p})
	}
	sort.Slice(o.pins, func(i, j int) bool { return o.pins[i].bit < o.pins[j].bit })
	o.Write(sequencer.None)
	return o
}

// Write sets every pin, changed or not; relays don't need diffing
func (o *Output) Write(mask sequencer.Mask) error {
	for _, cp := range o.pins {
		if mask.Has(cp.bit) != o.activeLow {
			cp.pin.High()
		} else {
			cp.pin.Low()
		}
	}
	return nil
}

// Close switches every channel off
func (o *Output) Close() error {
	return o.Write(sequencer.None)
}
