package midi

import (
	"fmt"
	"sync"

	"prop-sequence/debug"
	"prop-sequence/sequencer"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Launchpad X SysEx bodies (without F0/F7)
var (
	sysexProgrammer = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F} // programmer layout
	sysexSession    = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x00} // back to session layout
	sysexBrightness = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F} // maximum brightness
)

// LaunchpadController handles a Novation Launchpad X. Any pad press triggers
// the show; the bottom row mirrors the output channels.
type LaunchpadController struct {
	id       string
	send     func(msg gomidi.Message) error
	closeOut func() error
	stopFunc func()

	triggers chan struct{}

	mu     sync.Mutex
	last   sequencer.Mask
	primed bool
	closed bool
}

// listenFunc starts delivering input messages to handle
type listenFunc func(handle func(gomidi.Message)) (stop func(), err error)

// NewLaunchpadController creates and configures a Launchpad
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	var send func(gomidi.Message) error
	var closeOut func() error
	if outPort != nil {
		s, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		send, closeOut = s, outPort.Close
	}

	var listen listenFunc
	if inPort != nil {
		listen = func(handle func(gomidi.Message)) (func(), error) {
			return gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
				handle(msg)
			})
		}
	}

	return newLaunchpad(id, send, closeOut, listen)
}

func newLaunchpad(id string, send func(gomidi.Message) error, closeOut func() error, listen listenFunc) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:       id,
		send:     send,
		closeOut: closeOut,
		triggers: make(chan struct{}, 1),
	}

	if send != nil {
		send(gomidi.SysEx(sysexProgrammer))
		send(gomidi.SysEx(sysexBrightness))
	}

	if listen != nil {
		stop, err := listen(lp.handle)
		if err != nil {
			// Leave the device as we found it
			if send != nil {
				send(gomidi.SysEx(sysexSession))
			}
			if closeOut != nil {
				closeOut()
			}
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) handle(msg gomidi.Message) {
	var channel, note, velocity uint8
	var cc, value uint8

	// Grid + side buttons
	if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
		if row, col := noteToRowCol(note); row >= 0 {
			debug.Log("midi", "%s: pad %d,%d", lp.id, row, col)
			fire(lp.triggers)
		}
		return
	}

	// Top row buttons (CC 91-98)
	if msg.GetControlChange(&channel, &cc, &value) && value > 0 {
		if row, _ := ccToRowCol(cc); row >= 0 {
			fire(lp.triggers)
		}
	}
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) Triggers() <-chan struct{} {
	return lp.triggers
}

// padUpdates returns the LED changes needed to show mask on the bottom row
func (lp *LaunchpadController) padUpdates(mask sequencer.Mask) []Event {
	var evts []Event
	for col, ch := range sequencer.Channels {
		on := mask.Has(ch.Bit)
		if lp.primed && on == lp.last.Has(ch.Bit) {
			continue
		}
		color := ColorDimWhite
		if on {
			color = channelColors[ch.Bit]
		}
		evts = append(evts, Event{Type: NoteOn, Channel: ChannelStatic, Note: rowColToNote(0, col), Velocity: color})
	}
	lp.last = mask
	lp.primed = true
	return evts
}

// Write mirrors the mask on the bottom pad row. Only changed pads are sent.
func (lp *LaunchpadController) Write(mask sequencer.Mask) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.send == nil || lp.closed {
		return nil
	}
	for _, evt := range lp.padUpdates(mask) {
		if err := lp.send(evt.Message()); err != nil {
			lp.primed = false
			return fmt.Errorf("launchpad %s: %w", lp.id, err)
		}
	}
	return nil
}

func (lp *LaunchpadController) Close() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.closed {
		return nil
	}
	lp.closed = true

	// Clear the mirror row
	if lp.send != nil {
		for col := range sequencer.Channels {
			lp.send(gomidi.NoteOn(ChannelStatic, rowColToNote(0, col), ColorOff))
		}
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.triggers)
	if lp.closeOut != nil {
		return lp.closeOut()
	}
	return nil
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col:  Col 8 (right side scene buttons) = notes 19, 29, 39, 49, 59, 69, 79, 89
// Top row:   Row 8 (top control row) = CC 91-98 (handled via CC messages)

func rowColToNote(row, col int) uint8 {
	// Top row uses CC, but for LED control we use notes 91-98
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	// Top row notes (91-98)
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	// Accept 8x8 grid (rows 0-7, cols 0-7) plus side column (col 8)
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

// ccToRowCol converts CC messages to row/col (for top row buttons)
func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return 8, int(cc - 91)
	}
	return -1, -1
}
