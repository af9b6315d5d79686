package midi

import "prop-sequence/sequencer"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// Controller is a hot-pluggable MIDI device that can start the show and,
// when it has lights, mirror the output channels
type Controller interface {
	ID() string
	Type() ControllerType

	// Triggers fires once per press
	Triggers() <-chan struct{}

	// Write mirrors the channel mask (no-op without LEDs)
	sequencer.Output

	// Lifecycle
	Close() error
}

// Launchpad X color palette (velocity values 0-127)
// See Programmer's Reference Manual for full palette
const (
	ColorOff         uint8 = 0
	ColorDimWhite    uint8 = 1
	ColorWhite       uint8 = 3
	ColorRed         uint8 = 5
	ColorOrange      uint8 = 9
	ColorGreen       uint8 = 21
	ColorPurple      uint8 = 49
	ColorBrightWhite uint8 = 119

	// Channel modes for SetLED (use as 'channel' parameter)
	ChannelStatic uint8 = 0 // solid color
)

// channelColors gives each output channel a pad color
var channelColors = map[sequencer.Mask]uint8{
	sequencer.Fog:        ColorWhite,
	sequencer.Attractor:  ColorOrange,
	sequencer.Eyes:       ColorRed,
	sequencer.Blacklight: ColorPurple,
	sequencer.Strobe:     ColorBrightWhite,
	sequencer.Audio:      ColorGreen,
}

// fire sends a trigger without blocking the MIDI callback
func fire(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
