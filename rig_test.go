package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prop-sequence/config"
	"prop-sequence/sequencer"
)

func TestWatchPrintsAnimationChanges(t *testing.T) {
	cat := sequencer.MustCatalog(sequencer.IdleMask,
		sequencer.Sequence{Name: "one", Steps: []sequencer.Step{{Duration: 2, Mask: sequencer.Fog}}},
		sequencer.Sequence{Name: "two", Steps: []sequencer.Step{{Duration: 1, Mask: sequencer.Eyes}}},
	)
	player := sequencer.NewPlayer(cat, nil)
	player.Trigger()

	frames := make(chan sequencer.Frame, 8)
	frames <- sequencer.Frame{Cursor: sequencer.Cursor{Animation: sequencer.IdleIndex}, Mask: cat.Idle()}
	for i := 0; i < 4; i++ {
		f, _ := player.Advance()
		frames <- f
	}

	close(frames)

	var out strings.Builder
	watch(context.Background(), cat, frames, &out)

	want := "tick 1: animation 0 one (20ms)\ntick 3: animation 1 two (10ms)\ntick 4: idle (attractor)\n"
	if out.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRigWithoutOutputs(t *testing.T) {
	r, err := openRig(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var got sequencer.Mask
	out := r.Output(sequencer.OutputFunc(func(m sequencer.Mask) error {
		got = m
		return nil
	}))
	if err := out.Write(sequencer.Strobe); err != nil {
		t.Fatal(err)
	}
	if got != sequencer.Strobe {
		t.Fatalf("extra output saw %s", got)
	}
}

func TestLoadTheme(t *testing.T) {
	th, err := loadTheme("")
	if err != nil {
		t.Fatal(err)
	}
	if th.Palette.Name != "ember" {
		t.Fatalf("built-in palette %q", th.Palette.Name)
	}

	path := filepath.Join(t.TempDir(), "mono.gpl")
	os.WriteFile(path, []byte("GIMP Palette\nName: mono\n0 0 0\n255 255 255\n"), 0644)
	th, err = loadTheme(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Palette.Name != "mono" || len(th.Palette.Colors) != 2 {
		t.Fatalf("loaded %+v", th.Palette)
	}

	if _, err := loadTheme(filepath.Join(t.TempDir(), "missing.gpl")); err == nil {
		t.Fatal("expected error for missing palette")
	}
}

func TestSaveConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prop.json")
	os.WriteFile(path, []byte(`{"outputs": {"midi": {"portName": "DMX"}}}`), 0644)

	if err := saveConfig(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"portName": "DMX"`, `"attractor": 27`, `"debounceMs": 50`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("saved config missing %s:\n%s", want, data)
		}
	}
}
