package midi

import (
	"sort"
	"sync"

	"prop-sequence/debug"
	"prop-sequence/sequencer"
)

// Bank wires connected controllers into the show: their lights follow the
// mask written to slot and their presses call fire
type Bank struct {
	slot *sequencer.Slot
	fire func()

	mu          sync.Mutex
	controllers map[string]Controller
}

// NewBank creates an empty bank publishing into slot
func NewBank(slot *sequencer.Slot, fire func()) *Bank {
	return &Bank{
		slot:        slot,
		fire:        fire,
		controllers: make(map[string]Controller),
	}
}

// Handle applies one device event
func (b *Bank) Handle(event DeviceEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch event.Type {
	case DeviceConnected:
		ctrl := event.Controller
		b.controllers[event.ID] = ctrl
		go func() {
			for range ctrl.Triggers() {
				b.fire()
			}
		}()
	case DeviceDisconnected:
		delete(b.controllers, event.ID)
	}
	b.rebuild()
}

// Run applies events until the channel closes (blocking - run in goroutine)
func (b *Bank) Run(events <-chan DeviceEvent) {
	for event := range events {
		b.Handle(event)
	}
}

// IDs lists connected controllers in name order
func (b *Bank) IDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedIDs()
}

func (b *Bank) sortedIDs() []string {
	ids := make([]string, 0, len(b.controllers))
	for id := range b.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *Bank) rebuild() {
	ids := b.sortedIDs()
	if len(ids) == 0 {
		b.slot.Set(nil)
		return
	}
	outs := make([]sequencer.Output, len(ids))
	for i, id := range ids {
		outs[i] = b.controllers[id]
	}
	b.slot.Set(sequencer.MultiOutput(outs...))
	debug.Log("midi", "%d controller(s) mirroring", len(ids))
}
