package audio

import (
	"os"
	"path/filepath"
	"testing"

	"prop-sequence/sequencer"
)

func TestPlaysOnRisingEdgeOnly(t *testing.T) {
	plays, stops := 0, 0
	p := newPlayer(func() { plays++ }, func() { stops++ })

	masks := []sequencer.Mask{
		sequencer.Attractor,
		sequencer.Attractor | sequencer.Audio, // rising
		sequencer.Attractor | sequencer.Audio,
		sequencer.Fog,
		sequencer.Audio, // rising
		sequencer.Audio,
	}
	for _, m := range masks {
		p.Write(m)
	}
	if plays != 2 {
		t.Fatalf("played %d times, want 2", plays)
	}
	if stops != 0 {
		t.Fatal("falling edge stopped the clip")
	}
	p.Close()
	if stops != 1 {
		t.Fatal("close did not stop the clip")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for .ogg")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
