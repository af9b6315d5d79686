package midi

import (
	"fmt"
	"strings"
	"sync"

	"prop-sequence/debug"
	"prop-sequence/sequencer"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// NoteMap assigns a note to each output channel
type NoteMap map[sequencer.Mask]uint8

// DefaultNotes maps channels to consecutive notes from base, in port order
func DefaultNotes(base uint8) NoteMap {
	notes := make(NoteMap, len(sequencer.Channels))
	for i, ch := range sequencer.Channels {
		notes[ch.Bit] = base + uint8(i)
	}
	return notes
}

const onVelocity = 127

// Output drives channels as held notes on a MIDI port (lighting desks,
// relay boxes). The receiver latches note state, so only changes are sent.
type Output struct {
	send    func(msg gomidi.Message) error
	channel uint8
	notes   NoteMap

	mu     sync.Mutex
	last   sequencer.Mask
	primed bool
}

// NewOutput creates an output using send for delivery
func NewOutput(send func(msg gomidi.Message) error, channel uint8, notes NoteMap) *Output {
	if notes == nil {
		notes = DefaultNotes(60)
	}
	return &Output{
		send:    send,
		channel: channel & 0x0F,
		notes:   notes,
	}
}

// OpenOutput finds an output port whose name contains portName and opens it
func OpenOutput(portName string, channel uint8, notes NoteMap) (*Output, error) {
	port, err := findOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port.String(), err)
	}
	debug.Log("midi", "output opened: %s ch=%d", port.String(), channel)
	return NewOutput(send, channel, notes), nil
}

func findOutPort(name string) (drivers.Out, error) {
	want := strings.ToLower(name)
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), want) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", name)
}

// events computes the note changes from the last written mask. The first
// call sends every mapped channel so the receiver starts in a known state.
func (o *Output) events(mask sequencer.Mask) []Event {
	var evts []Event
	for _, ch := range sequencer.Channels {
		note, ok := o.notes[ch.Bit]
		if !ok {
			continue
		}
		on := mask.Has(ch.Bit)
		if o.primed && on == o.last.Has(ch.Bit) {
			continue
		}
		evt := Event{Type: NoteOff, Channel: o.channel, Note: note}
		if on {
			evt.Type = NoteOn
			evt.Velocity = onVelocity
		}
		evts = append(evts, evt)
	}
	o.last = mask
	o.primed = true
	return evts
}

// Write implements sequencer.Output
func (o *Output) Write(mask sequencer.Mask) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, evt := range o.events(mask) {
		if err := o.send(evt.Message()); err != nil {
			// Force a full resend next tick
			o.primed = false
			return fmt.Errorf("midi send note %d: %w", evt.Note, err)
		}
	}
	return nil
}

// Close releases every channel
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var firstErr error
	for _, ch := range sequencer.Channels {
		note, ok := o.notes[ch.Bit]
		if !ok {
			continue
		}
		if err := o.send(gomidi.NoteOff(o.channel, note)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	o.last = sequencer.None
	o.primed = false
	return firstErr
}
