package gpio

import (
	"context"
	"time"

	"prop-sequence/debug"

	"github.com/stianeikeland/go-rpio/v4"
)

// PollPeriod is how often the edge-detect register is read
const PollPeriod = time.Millisecond

// edgeDetector is the part of rpio.Pin a trigger needs
type edgeDetector interface {
	EdgeDetected() bool
}

// Trigger reports rising edges on a sensor pin, at most once per debounce
// window
type Trigger struct {
	pin      edgeDetector
	debounce time.Duration
	last     time.Time
	armed    bool
}

// NewTrigger configures a BCM pin as a pulled-down input with rising-edge
// detection
func NewTrigger(num int, debounce time.Duration) *Trigger {
	p := rpio.Pin(num)
	p.Input()
	p.PullDown()
	p.Detect(rpio.RiseEdge)
	debug.Log("gpio", "trigger on BCM%d, debounce %s", num, debounce)
	return newTrigger(p, debounce)
}

func newTrigger(pin edgeDetector, debounce time.Duration) *Trigger {
	return &Trigger{pin: pin, debounce: debounce}
}

// poll reads and clears the edge flag, applying the debounce window
func (t *Trigger) poll(now time.Time) bool {
	if !t.pin.EdgeDetected() {
		return false
	}
	if t.armed && now.Sub(t.last) < t.debounce {
		return false
	}
	t.armed = true
	t.last = now
	return true
}

// Run calls fire for each debounced edge until ctx is cancelled
// (blocking - run in goroutine)
func (t *Trigger) Run(ctx context.Context, fire func()) {
	ticker := time.NewTicker(PollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if t.poll(now) {
				debug.Log("gpio", "edge")
				fire()
			}
		}
	}
}
