package sequencer

import (
	"errors"
	"sync"
)

// Output drives physical channels from a logical mask. Implementations own
// any inversion or protocol mapping.
type Output interface {
	Write(mask Mask) error
}

// OutputFunc adapts a function to Output
type OutputFunc func(mask Mask) error

func (f OutputFunc) Write(mask Mask) error {
	return f(mask)
}

// Discard accepts every mask and drives nothing
var Discard Output = OutputFunc(func(Mask) error { return nil })

type multiOutput []Output

// MultiOutput writes every mask to all outputs, even when one of them fails
func MultiOutput(outputs ...Output) Output {
	var flat multiOutput
	for _, o := range outputs {
		if o == nil {
			continue
		}
		if m, ok := o.(multiOutput); ok {
			flat = append(flat, m...)
			continue
		}
		flat = append(flat, o)
	}
	return flat
}

func (m multiOutput) Write(mask Mask) error {
	var errs []error
	for _, o := range m {
		if err := o.Write(mask); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Slot is an output that can be swapped while the driver is running
// (hot-plugged controllers). An empty slot discards writes.
type Slot struct {
	mu  sync.RWMutex
	out Output
}

// Set replaces the current output; nil empties the slot
func (s *Slot) Set(o Output) {
	s.mu.Lock()
	s.out = o
	s.mu.Unlock()
}

func (s *Slot) Write(mask Mask) error {
	s.mu.RLock()
	o := s.out
	s.mu.RUnlock()
	if o == nil {
		return nil
	}
	return o.Write(mask)
}
