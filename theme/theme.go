package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	LampOn  rune // ● channel driven
	LampOff rune // ○ channel released

	BarFull  rune // █ show elapsed
	BarEmpty rune // ░ show remaining
	BarMark  rune // │ animation boundary

	Playing rune // ▶
	Idle    rune // ■
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LampOn:  '●',
			LampOff: '○',

			BarFull:  '█',
			BarEmpty: '░',
			BarMark:  '│',

			Playing: '▶',
			Idle:    '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleSurface = 0.125 // dark plum
	RoleMuted   = 0.25  // dusty purple
	RoleFG      = 0.5   // pale lilac
	RoleAccent  = 0.625 // ember orange
	RoleActive  = 0.875 // blood red
	RoleWarning = 0.94  // amber
	RoleSuccess = 1.0   // green
)

// channelRoles colours each output channel, in sequencer.Channels order
var channelRoles = []float64{
	RoleMuted,   // fog
	RoleAccent,  // attractor
	RoleActive,  // eyes
	RoleSurface, // blacklight
	RoleFG,      // strobe
	RoleSuccess, // audio
}

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// ChannelRGB returns the lamp colour for the i-th channel in port order
func (t *Theme) ChannelRGB(i int) RGB {
	if i < 0 || i >= len(channelRoles) {
		return t.Palette.Lookup(RoleFG)
	}
	return t.Palette.Lookup(channelRoles[i])
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(hex(c))
}

// hex formats c as #rrggbb
func hex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
