package sequencer

import (
	"errors"
	"fmt"
)

// Configuration errors reported by NewCatalog
var (
	ErrEmptyCatalog  = errors.New("catalog has no sequences")
	ErrEmptySequence = errors.New("sequence has no steps")
	ErrZeroDuration  = errors.New("step duration must be at least one tick")
)

// Step holds one mask for a number of ticks
type Step struct {
	Duration uint // ticks, >= 1
	Mask     Mask
}

// Sequence is one animation's timeline
type Sequence struct {
	Name  string
	Steps []Step
}

// Ticks returns the total length of the sequence
func (s Sequence) Ticks() uint {
	var total uint
	for _, st := range s.Steps {
		total += st.Duration
	}
	return total
}

// Catalog is the fixed, ordered chain of animations played after a trigger.
// It is immutable once built.
type Catalog struct {
	idle      Mask
	sequences []Sequence
}

// NewCatalog validates and copies the given sequences. Sequences play in
// argument order; idle is emitted whenever nothing is playing.
func NewCatalog(idle Mask, sequences ...Sequence) (*Catalog, error) {
	if len(sequences) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		idle:      idle,
		sequences: make([]Sequence, len(sequences)),
	}
	for i, seq := range sequences {
		if len(seq.Steps) == 0 {
			return nil, fmt.Errorf("sequence %d (%s): %w", i, seq.Name, ErrEmptySequence)
		}
		for j, st := range seq.Steps {
			if st.Duration == 0 {
				return nil, fmt.Errorf("sequence %d (%s) step %d: %w", i, seq.Name, j, ErrZeroDuration)
			}
		}
		steps := make([]Step, len(seq.Steps))
		copy(steps, seq.Steps)
		c.sequences[i] = Sequence{Name: seq.Name, Steps: steps}
	}
	return c, nil
}

// MustCatalog is NewCatalog for tables compiled into the program
func MustCatalog(idle Mask, sequences ...Sequence) *Catalog {
	c, err := NewCatalog(idle, sequences...)
	if err != nil {
		panic(fmt.Sprintf("invalid catalog: %v", err))
	}
	return c
}

// Len returns the number of animations
func (c *Catalog) Len() int {
	return len(c.sequences)
}

// Idle returns the mask emitted while idle
func (c *Catalog) Idle() Mask {
	return c.idle
}

// SequenceFor returns a copy of animation i. Panics if i is out of range.
func (c *Catalog) SequenceFor(i int) Sequence {
	seq := c.sequence(i)
	steps := make([]Step, len(seq.Steps))
	copy(steps, seq.Steps)
	return Sequence{Name: seq.Name, Steps: steps}
}

// sequence returns the stored animation i without copying
func (c *Catalog) sequence(i int) *Sequence {
	if i < 0 || i >= len(c.sequences) {
		panic(fmt.Sprintf("sequencer: animation index %d out of range [0,%d)", i, len(c.sequences)))
	}
	return &c.sequences[i]
}

// Name returns the name of animation i
func (c *Catalog) Name(i int) string {
	return c.sequence(i).Name
}

// StepCount returns the number of steps in animation i
func (c *Catalog) StepCount(i int) int {
	return len(c.sequence(i).Steps)
}

// StepAt returns step j of animation i. A step index past the end is a
// player bug and panics.
func (c *Catalog) StepAt(i, j int) Step {
	steps := c.sequence(i).Steps
	if j < 0 || j >= len(steps) {
		panic(fmt.Sprintf("sequencer: step %d out of range for animation %d (%d steps)", j, i, len(steps)))
	}
	return steps[j]
}

// Ticks returns the length of animation i
func (c *Catalog) Ticks(i int) uint {
	return c.sequence(i).Ticks()
}

// TotalTicks returns the length of the whole chain
func (c *Catalog) TotalTicks() uint {
	var total uint
	for _, seq := range c.sequences {
		total += seq.Ticks()
	}
	return total
}

// Sequences returns a copy of the animation chain
func (c *Catalog) Sequences() []Sequence {
	out := make([]Sequence, len(c.sequences))
	for i, seq := range c.sequences {
		steps := make([]Step, len(seq.Steps))
		copy(steps, seq.Steps)
		out[i] = Sequence{Name: seq.Name, Steps: steps}
	}
	return out
}

// Boundaries returns the tick at which each animation ends, counted from
// the start of the chain
func (c *Catalog) Boundaries() []uint {
	ends := make([]uint, len(c.sequences))
	var at uint
	for i, seq := range c.sequences {
		at += seq.Ticks()
		ends[i] = at
	}
	return ends
}

// Position returns how many ticks of the chain cur has played, or 0 while idle
func (c *Catalog) Position(cur Cursor) uint {
	if cur.Animation == IdleIndex {
		return 0
	}
	var at uint
	for i := 0; i < cur.Animation; i++ {
		at += c.sequences[i].Ticks()
	}
	for _, step := range c.sequence(cur.Animation).Steps[:cur.Step] {
		at += step.Duration
	}
	return at + cur.Elapsed
}
