package sequencer

import (
	"fmt"
	"strings"
)

// Mask is a bitfield of active output channels
type Mask uint8

// Output channels. Bit positions match the prop's output port wiring.
const (
	None       Mask = 0x00
	Fog        Mask = 0x01
	Attractor  Mask = 0x02
	Eyes       Mask = 0x04
	Blacklight Mask = 0x10
	Strobe     Mask = 0x40
	Audio      Mask = 0x80
)

// Channel names a single output bit
type Channel struct {
	Bit  Mask
	Name string
}

// Channels lists every output channel in port order
var Channels = []Channel{
	{Fog, "fog"},
	{Attractor, "attractor"},
	{Eyes, "eyes"},
	{Blacklight, "blacklight"},
	{Strobe, "strobe"},
	{Audio, "audio"},
}

// AllChannels is the union of every defined channel bit
const AllChannels = Fog | Attractor | Eyes | Blacklight | Strobe | Audio

// Has reports whether every bit of c is set in m
func (m Mask) Has(c Mask) bool {
	return m&c == c
}

// String renders the mask as "fog|eyes", or "none"
func (m Mask) String() string {
	var names []string
	for _, ch := range Channels {
		if m.Has(ch.Bit) {
			names = append(names, ch.Name)
		}
	}
	if rest := m &^ AllChannels; rest != 0 {
		names = append(names, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseChannel looks up a single channel by name (case-insensitive)
func ParseChannel(name string) (Mask, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ch := range Channels {
		if ch.Name == name {
			return ch.Bit, nil
		}
	}
	return None, fmt.Errorf("unknown channel %q", name)
}

// ParseMask parses "fog|eyes" style masks. "none" and "" are the empty mask.
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}
	var m Mask
	for _, part := range strings.Split(s, "|") {
		bit, err := ParseChannel(part)
		if err != nil {
			return None, err
		}
		m |= bit
	}
	return m, nil
}
