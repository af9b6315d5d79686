package sequencer

import (
	"context"
	"time"

	"prop-sequence/debug"
)

// Driver calls Advance on a fixed period and publishes frames for the UI
type Driver struct {
	player *Player
	period time.Duration

	// Latest frame, newest wins
	frames chan Frame
}

// NewDriver creates a driver ticking at period (TickPeriod if zero)
func NewDriver(player *Player, period time.Duration) *Driver {
	if period <= 0 {
		period = TickPeriod
	}
	return &Driver{
		player: player,
		period: period,
		frames: make(chan Frame, 1),
	}
}

// Player returns the driven player
func (d *Driver) Player() *Player {
	return d.player
}

// Frames delivers the most recent frame. Slow readers skip frames.
func (d *Driver) Frames() <-chan Frame {
	return d.frames
}

// Trigger forwards an edge event from any goroutine and reports whether the
// show will start
func (d *Driver) Trigger() bool {
	if !d.player.Trigger() {
		debug.Log("trig", "ignored, show in progress")
		return false
	}
	debug.Log("trig", "accepted")
	return true
}

// Run ticks until ctx is cancelled (blocking - run in goroutine)
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	debug.Log("tick", "driver started, period %s", d.period)

	for {
		select {
		case <-ctx.Done():
			debug.Log("tick", "driver stopped")
			return ctx.Err()
		case <-ticker.C:
			d.step()
		}
	}
}

func (d *Driver) step() {
	frame, err := d.player.Advance()
	if err != nil {
		debug.LogEvery(100, "out", "write %s: %v", frame.Mask, err)
	}
	d.publish(frame)
}

func (d *Driver) publish(frame Frame) {
	// Drop the stale frame if the reader fell behind
	select {
	case <-d.frames:
	default:
	}
	select {
	case d.frames <- frame:
	default:
	}
}
