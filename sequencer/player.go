package sequencer

import (
	"fmt"
	"sync/atomic"

	"prop-sequence/debug"
)

// IdleIndex is the Cursor.Animation value while nothing is playing
const IdleIndex = -1

// State is the coarse playback state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "PLAY"
	}
	return "IDLE"
}

// Cursor locates playback inside the catalog
type Cursor struct {
	Animation int  // catalog index, IdleIndex while idle
	Step      int  // step within the animation
	Elapsed   uint // ticks already spent on the step
}

// State reports whether the cursor is idle or playing
func (c Cursor) State() State {
	if c.Animation == IdleIndex {
		return Idle
	}
	return Playing
}

func (c Cursor) String() string {
	if c.Animation == IdleIndex {
		return "idle"
	}
	return fmt.Sprintf("anim %d step %d +%d", c.Animation, c.Step, c.Elapsed)
}

// Frame is what one Advance produced
type Frame struct {
	Cursor
	Mask Mask
	Tick uint64
}

// Player walks the catalog one tick at a time. Advance must only be called
// from a single goroutine; Trigger may be called from anywhere.
type Player struct {
	catalog *Catalog
	out     Output

	cursor Cursor
	tick   uint64

	// animation mirrors cursor.Animation for lock-free reads from Trigger
	animation atomic.Int32
	pending   atomic.Bool
}

// NewPlayer creates an idle player. A nil output discards masks.
func NewPlayer(catalog *Catalog, out Output) *Player {
	if out == nil {
		out = Discard
	}
	p := &Player{
		catalog: catalog,
		out:     out,
	}
	p.enter(IdleIndex)
	return p
}

// Catalog returns the animation chain being played
func (p *Player) Catalog() *Catalog {
	return p.catalog
}

// Trigger requests a show start. It is accepted only while idle and takes
// effect on the next Advance; triggers during a show are dropped.
func (p *Player) Trigger() bool {
	if p.animation.Load() != IdleIndex {
		return false
	}
	p.pending.Store(true)
	return true
}

// State is safe to call from any goroutine
func (p *Player) State() State {
	if p.animation.Load() == IdleIndex {
		return Idle
	}
	return Playing
}

// Cursor returns the playback position. Only valid on the advancing goroutine.
func (p *Player) Cursor() Cursor {
	return p.cursor
}

// Advance runs one tick: consume a pending trigger, step the cursor if the
// current step has run its course, then write the mask of whatever step is
// now current. The returned error comes from the output only; playback state
// has advanced regardless.
func (p *Player) Advance() (Frame, error) {
	p.tick++

	if p.pending.Swap(false) && p.cursor.Animation == IdleIndex {
		debug.Log("play", "trigger at tick %d", p.tick)
		p.enter(0)
	}

	if p.cursor.Animation != IdleIndex {
		p.stepIfDue()
	}

	mask := p.catalog.Idle()
	if p.cursor.Animation != IdleIndex {
		mask = p.catalog.StepAt(p.cursor.Animation, p.cursor.Step).Mask
		p.cursor.Elapsed++
	}

	frame := Frame{Cursor: p.cursor, Mask: mask, Tick: p.tick}
	return frame, p.out.Write(mask)
}

// stepIfDue performs at most one transition. Durations are >= 1 so the step
// entered here is never already due.
func (p *Player) stepIfDue() {
	c := &p.cursor
	if c.Elapsed < p.catalog.StepAt(c.Animation, c.Step).Duration {
		return
	}

	c.Step++
	c.Elapsed = 0
	if c.Step < p.catalog.StepCount(c.Animation) {
		return
	}

	next := c.Animation + 1
	if next >= p.catalog.Len() {
		next = IdleIndex
	}
	p.enter(next)
}

func (p *Player) enter(animation int) {
	if animation == IdleIndex {
		debug.Log("play", "idle at tick %d", p.tick)
	} else {
		debug.Log("play", "animation %d (%s) at tick %d",
			animation, p.catalog.Name(animation), p.tick)
	}
	p.cursor = Cursor{Animation: animation}
	p.animation.Store(int32(animation))
}
