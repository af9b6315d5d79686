package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"prop-sequence/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of MIDI controllers: any
// Launchpad, plus the input port named as trigger port
type DeviceManager struct {
	triggerPort string
	triggerNote int

	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a new device manager. An empty triggerPort only
// watches for Launchpads.
func NewDeviceManager(triggerPort string, triggerNote int) *DeviceManager {
	return &DeviceManager{
		triggerPort: strings.ToLower(triggerPort),
		triggerNote: triggerNote,
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

// emit delivers an event unless ctx ends first
func (dm *DeviceManager) emit(ctx context.Context, event DeviceEvent) {
	select {
	case dm.events <- event:
	case <-ctx.Done():
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		inPorts := gomidi.GetInPorts()
		outPorts := gomidi.GetOutPorts()
		ch <- portsResult{inPorts: inPorts, outPorts: outPorts}
	}()

	var inPorts []drivers.In
	var outPorts []drivers.Out

	select {
	case result := <-ch:
		inPorts = result.inPorts
		outPorts = result.outPorts
	case <-time.After(3 * time.Second):
		debug.Log("midi", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		id := inPort.String()
		kind := dm.classify(id)
		if kind == ControllerUnknown {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var ctrl Controller
		var err error
		switch kind {
		case ControllerLaunchpad:
			ctrl, err = NewLaunchpadController(id, inPorts[i], matchingOut(id, outPorts))
		case ControllerKeyboard:
			ctrl, err = NewKeyboardController(id, inPorts[i], dm.triggerNote)
		}
		if err != nil {
			debug.Log("midi", "connect %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = ctrl
		dm.mu.Unlock()

		debug.Log("midi", "connected %s (%s)", id, kind)
		dm.emit(ctx, DeviceEvent{
			Type:       DeviceConnected,
			Controller: ctrl,
			ID:         id,
		})
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		c := dm.controllers[id]
		c.Close()
		delete(dm.controllers, id)
		debug.Log("midi", "disconnected %s", id)
		dm.emit(ctx, DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		})
	}
	dm.mu.Unlock()
}

// classify decides what a port name should become
func (dm *DeviceManager) classify(portName string) ControllerType {
	name := strings.ToLower(portName)
	if isLaunchpad(name) {
		return ControllerLaunchpad
	}
	if dm.triggerPort != "" && strings.Contains(name, dm.triggerPort) {
		return ControllerKeyboard
	}
	return ControllerUnknown
}

func matchingOut(name string, outPorts []drivers.Out) drivers.Out {
	name = strings.ToLower(name)
	for j, op := range outPorts {
		if strings.ToLower(op.String()) == name {
			return outPorts[j]
		}
	}
	return nil
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
