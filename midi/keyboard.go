package midi

import (
	"fmt"

	"prop-sequence/debug"
	"prop-sequence/sequencer"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// AnyNote makes a keyboard trigger on every note
const AnyNote = -1

// KeyboardController turns note-on messages from a MIDI input (keyboard,
// pad controller, sensor interface) into show triggers
type KeyboardController struct {
	id       string
	inPort   drivers.In
	note     int
	stopFunc func()

	triggers chan struct{}
}

// NewKeyboardController listens on inPort for note (or AnyNote)
func NewKeyboardController(id string, inPort drivers.In, note int) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		note:     note,
		triggers: make(chan struct{}, 1),
	}

	// Open input
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			kb.handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) handle(msg gomidi.Message) {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return
	}
	if kb.note != AnyNote && int(note) != kb.note {
		return
	}
	debug.Log("midi", "%s: trigger note %d vel %d", kb.id, note, velocity)
	fire(kb.triggers)
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) Triggers() <-chan struct{} {
	return kb.triggers
}

// Write is a no-op for keyboards (no visual feedback)
func (kb *KeyboardController) Write(mask sequencer.Mask) error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.triggers)
	return nil
}
