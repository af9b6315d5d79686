package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"prop-sequence/midi"
	"prop-sequence/sequencer"
	"prop-sequence/theme"
	"prop-sequence/widgets"
)

const defaultWidth = 60

var helpKeys = []widgets.KeySection{{
	Keys: []widgets.KeyBinding{
		{Key: "space / t", Desc: "trigger the show"},
		{Key: "q", Desc: "quit"},
	},
}}

type Model struct {
	Driver    *sequencer.Driver
	DeviceMgr *midi.DeviceManager
	Bank      *midi.Bank
	Theme     *theme.Theme

	frame    sequencer.Frame
	status   string
	warn     bool // status is a warning
	width    int
	quitting bool
}

type FrameMsg sequencer.Frame

type DeviceEventMsg midi.DeviceEvent

// NewModel builds the status screen. deviceMgr and bank may be nil when MIDI
// controllers are not in use.
func NewModel(driver *sequencer.Driver, deviceMgr *midi.DeviceManager, bank *midi.Bank, th *theme.Theme) Model {
	return Model{
		Driver:    driver,
		DeviceMgr: deviceMgr,
		Bank:      bank,
		Theme:     th,
		frame: sequencer.Frame{
			Cursor: sequencer.Cursor{Animation: sequencer.IdleIndex},
			Mask:   driver.Player().Catalog().Idle(),
		},
		width: defaultWidth,
	}
}

func ListenForFrames(driver *sequencer.Driver) tea.Cmd {
	return func() tea.Msg {
		return FrameMsg(<-driver.Frames())
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForFrames(m.Driver)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "t":
			if m.Driver.Trigger() {
				m.status, m.warn = "triggered", false
			} else {
				m.status, m.warn = "show in progress, trigger ignored", true
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case FrameMsg:
		m.frame = sequencer.Frame(msg)
		if m.frame.State() == sequencer.Playing {
			m.status = ""
		}
		return m, ListenForFrames(m.Driver)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if m.Bank != nil {
			m.Bank.Handle(event)
		}
		if event.Type == midi.DeviceConnected {
			m.status, m.warn = "connected "+event.ID, false
		} else {
			m.status, m.warn = "disconnected "+event.ID, true
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cat := m.Driver.Player().Catalog()
	sym := m.Theme.Symbols

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	header := headerStyle.Render("prop-sequence  ") + m.renderState(cat)

	// Channel lamps
	lamps := make([]widgets.Lamp, len(sequencer.Channels))
	for i, ch := range sequencer.Channels {
		lamps[i] = widgets.Lamp{
			Name:  ch.Name,
			Color: m.Theme.ChannelRGB(i),
			On:    m.frame.Mask.Has(ch.Bit),
		}
	}
	lampView := widgets.RenderLamps(lamps, sym.LampOn, sym.LampOff, m.Theme.Palette.Lookup(theme.RoleMuted))

	// Show progress
	pos, total := cat.Position(m.frame.Cursor), cat.TotalTicks()
	bar := widgets.RenderProgress(widgets.Progress{
		Width:    max(m.width-16, 10),
		Total:    total,
		Position: pos,
		Marks:    cat.Boundaries(),
	}, sym.BarFull, sym.BarEmpty, sym.BarMark)
	progress := activeStyle.Render(bar) + dimStyle.Render(fmt.Sprintf(" %s/%s", seconds(pos), seconds(total)))

	// Controllers
	devices := "midi: none"
	if m.Bank != nil {
		if ids := m.Bank.IDs(); len(ids) > 0 {
			devices = "midi: " + strings.Join(ids, ", ")
		}
	}

	help := dimStyle.Render(widgets.RenderKeyHelp(helpKeys))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(lampView)
	out.WriteString("\n")
	out.WriteString(fgStyle.Render("mask " + m.frame.Mask.String()))
	out.WriteString("\n\n")
	out.WriteString(progress)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(devices))
	if m.status != "" {
		statusStyle := fgStyle
		if m.warn {
			statusStyle = lipgloss.NewStyle().Foreground(m.Theme.Warning())
		}
		out.WriteString("\n")
		out.WriteString(statusStyle.Render(m.status))
	}
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}

func (m Model) renderState(cat *sequencer.Catalog) string {
	sym := m.Theme.Symbols
	cur := m.frame.Cursor
	if cur.State() == sequencer.Idle {
		style := lipgloss.NewStyle().Foreground(m.Theme.Muted())
		return style.Render(fmt.Sprintf("%c %s  waiting for trigger", sym.Idle, sequencer.Idle))
	}

	style := lipgloss.NewStyle().Foreground(m.Theme.Success())
	step := cat.StepAt(cur.Animation, cur.Step)
	return style.Render(fmt.Sprintf("%c %s  %s  step %d/%d  %d/%d",
		sym.Playing, sequencer.Playing,
		cat.Name(cur.Animation),
		cur.Step+1, cat.StepCount(cur.Animation),
		cur.Elapsed, step.Duration))
}

func seconds(ticks uint) string {
	return fmt.Sprintf("%.2fs", (sequencer.TickPeriod * time.Duration(ticks)).Seconds())
}
