// Package audio plays the prop's sound clip when the audio channel fires
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"prop-sequence/debug"
	"prop-sequence/sequencer"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player is a sequencer output that starts the clip on each rising edge of
// the audio channel. A falling edge lets the clip finish.
type Player struct {
	play func()
	stop func()

	mu   sync.Mutex
	last bool
}

// Load decodes a .wav or .mp3 file into memory and opens the speaker
func Load(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported clip format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	debug.Log("audio", "loaded %s (%s, %d samples)", filepath.Base(path),
		format.SampleRate.D(buffer.Len()).Round(time.Millisecond), buffer.Len())

	return newPlayer(
		func() {
			speaker.Clear()
			speaker.Play(buffer.Streamer(0, buffer.Len()))
		},
		speaker.Clear,
	), nil
}

func newPlayer(play, stop func()) *Player {
	return &Player{play: play, stop: stop}
}

// Write implements sequencer.Output
func (p *Player) Write(mask sequencer.Mask) error {
	on := mask.Has(sequencer.Audio)

	p.mu.Lock()
	rising := on && !p.last
	p.last = on
	p.mu.Unlock()

	if rising {
		debug.Log("audio", "play")
		p.play()
	}
	return nil
}

// Close stops any clip in progress
func (p *Player) Close() error {
	p.stop()
	return nil
}
