package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"prop-sequence/midi"
	"prop-sequence/sequencer"
	"prop-sequence/theme"
)

func newTestModel() (Model, *sequencer.Player) {
	cat := sequencer.MustCatalog(sequencer.IdleMask,
		sequencer.Sequence{Name: "wake", Steps: []sequencer.Step{{Duration: 3, Mask: sequencer.Eyes | sequencer.Fog}}},
	)
	player := sequencer.NewPlayer(cat, nil)
	driver := sequencer.NewDriver(player, 0)
	var slot sequencer.Slot
	bank := midi.NewBank(&slot, func() { driver.Trigger() })
	return NewModel(driver, nil, bank, theme.New(theme.Default())), player
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestIdleView(t *testing.T) {
	m, _ := newTestModel()
	view := m.View()
	for _, want := range []string{"IDLE", "waiting for trigger", "mask attractor", "midi: none", "0.00s/0.03s", "space / t", "trigger the show"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTriggerKeyThenFrame(t *testing.T) {
	m, player := newTestModel()

	next, _ := m.Update(key(" "))
	m = next.(Model)
	if m.status != "triggered" {
		t.Fatalf("status %q", m.status)
	}

	frame, _ := player.Advance()
	next, _ = m.Update(FrameMsg(frame))
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"PLAY", "wake", "step 1/1", "1/3", "mask fog|eyes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, _ = m.Update(key("t"))
	m = next.(Model)
	if !strings.Contains(m.status, "ignored") || !m.warn {
		t.Fatalf("second trigger status %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
	if next.View() != "" {
		t.Fatal("view not cleared on quit")
	}
}
