package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"prop-sequence/sequencer"
)

// GPIOOutputConfig wires channels to Raspberry Pi BCM pins
type GPIOOutputConfig struct {
	Enabled   bool           `json:"enabled"`
	Pins      map[string]int `json:"pins,omitempty"` // channel name -> BCM pin, -1 = unwired
	ActiveLow bool           `json:"activeLow"`
}

// MIDIOutputConfig drives channels as held notes on a MIDI port
type MIDIOutputConfig struct {
	PortName string           `json:"portName,omitempty"` // empty = disabled
	Channel  uint8            `json:"channel,omitempty"`  // 0-15
	Notes    map[string]uint8 `json:"notes,omitempty"`    // channel name -> note
}

// AudioConfig names the clip played when the audio channel fires
type AudioConfig struct {
	File string `json:"file,omitempty"` // .wav or .mp3; empty = disabled
}

// OutputsConfig lists every output sink
type OutputsConfig struct {
	GPIO  GPIOOutputConfig `json:"gpio"`
	MIDI  MIDIOutputConfig `json:"midi"`
	Audio AudioConfig      `json:"audio"`
}

// GPIOTriggerConfig is the sensor input
type GPIOTriggerConfig struct {
	Enabled    bool `json:"enabled"`
	Pin        int  `json:"pin"`
	DebounceMs int  `json:"debounceMs,omitempty"`
}

// MIDITriggerConfig starts the show from a MIDI input port
type MIDITriggerConfig struct {
	PortName string `json:"portName,omitempty"` // empty = Launchpads only
	Note     int    `json:"note"`               // -1 = any note
}

// TriggersConfig lists every trigger source
type TriggersConfig struct {
	GPIO GPIOTriggerConfig `json:"gpio"`
	MIDI MIDITriggerConfig `json:"midi"`
}

// Config is the main configuration structure. Sequences and tick timing are
// compiled in.
type Config struct {
	Outputs  OutputsConfig  `json:"outputs"`
	Triggers TriggersConfig `json:"triggers"`
	Palette  string         `json:"palette,omitempty"` // .gpl file; empty = built-in
	Debug    bool           `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Outputs: OutputsConfig{
			GPIO: GPIOOutputConfig{
				Pins: map[string]int{
					"fog":        17,
					"attractor":  27,
					"eyes":       22,
					"blacklight": 23,
					"strobe":     24,
					"audio":      25,
				},
				ActiveLow: true,
			},
			MIDI: MIDIOutputConfig{
				Notes: map[string]uint8{
					"fog":        60,
					"attractor":  61,
					"eyes":       62,
					"blacklight": 63,
					"strobe":     64,
					"audio":      65,
				},
			},
		},
		Triggers: TriggersConfig{
			GPIO: GPIOTriggerConfig{
				Pin:        5,
				DebounceMs: 50,
			},
			MIDI: MIDITriggerConfig{
				Note: -1,
			},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "prop-sequence"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not exist.
// Fields missing from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks channel names, pin numbers and MIDI ranges
func (c *Config) Validate() error {
	if _, err := c.GPIOPins(); err != nil {
		return err
	}
	if _, err := c.MIDINotes(); err != nil {
		return err
	}
	if c.Outputs.MIDI.Channel > 15 {
		return fmt.Errorf("midi channel %d out of range 0-15", c.Outputs.MIDI.Channel)
	}
	if n := c.Triggers.MIDI.Note; n < -1 || n > 127 {
		return fmt.Errorf("trigger note %d out of range", n)
	}
	if c.Triggers.GPIO.DebounceMs < 0 {
		return fmt.Errorf("negative debounce %dms", c.Triggers.GPIO.DebounceMs)
	}
	return nil
}

// GPIOPins resolves the pin map to channel bits
func (c *Config) GPIOPins() (map[sequencer.Mask]int, error) {
	pins := make(map[sequencer.Mask]int, len(c.Outputs.GPIO.Pins))
	used := make(map[int]string)
	for _, name := range sortedKeys(c.Outputs.GPIO.Pins) {
		num := c.Outputs.GPIO.Pins[name]
		bit, err := sequencer.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("gpio pins: %w", err)
		}
		if num < 0 {
			continue
		}
		if num > 27 {
			return nil, fmt.Errorf("gpio pins: %s on BCM%d out of range", name, num)
		}
		if other, dup := used[num]; dup {
			return nil, fmt.Errorf("gpio pins: BCM%d used by %s and %s", num, other, name)
		}
		used[num] = name
		pins[bit] = num
	}
	return pins, nil
}

// MIDINotes resolves the note map to channel bits
func (c *Config) MIDINotes() (map[sequencer.Mask]uint8, error) {
	notes := make(map[sequencer.Mask]uint8, len(c.Outputs.MIDI.Notes))
	for _, name := range sortedKeys(c.Outputs.MIDI.Notes) {
		note := c.Outputs.MIDI.Notes[name]
		bit, err := sequencer.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("midi notes: %w", err)
		}
		if note > 127 {
			return nil, fmt.Errorf("midi notes: %s note %d out of range", name, note)
		}
		notes[bit] = note
	}
	return notes, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
