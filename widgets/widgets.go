package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lamp is one output channel as shown on screen
type Lamp struct {
	Name  string
	Color [3]uint8
	On    bool
}

// RenderPad renders a single colored symbol
func RenderPad(color [3]uint8, sym rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(sym))
}

// RenderLamps renders a row of lamps with their names underneath.
// Released lamps are drawn with off in the dim color.
func RenderLamps(lamps []Lamp, on, off rune, dim [3]uint8) string {
	var top, bottom strings.Builder
	for i, l := range lamps {
		width := max(len(l.Name), 1)
		if i > 0 {
			top.WriteString("  ")
			bottom.WriteString("  ")
		}
		pad := (width - 1) / 2
		top.WriteString(strings.Repeat(" ", pad))
		if l.On {
			top.WriteString(RenderPad(l.Color, on))
		} else {
			top.WriteString(RenderPad(dim, off))
		}
		top.WriteString(strings.Repeat(" ", width-1-pad))
		bottom.WriteString(l.Name)
	}
	return top.String() + "\n" + bottom.String()
}

// Progress describes a bar split into segments
type Progress struct {
	Width    int
	Total    uint   // whole length in ticks
	Position uint   // ticks elapsed
	Marks    []uint // segment boundaries in ticks
}

// RenderProgress draws the bar as plain runes; the caller styles it
func RenderProgress(p Progress, full, empty, mark rune) string {
	if p.Width <= 0 {
		return ""
	}
	cells := make([]rune, p.Width)
	filled := 0
	if p.Total > 0 {
		filled = int(uint64(min(p.Position, p.Total)) * uint64(p.Width) / uint64(p.Total))
	}
	for i := range cells {
		if i < filled {
			cells[i] = full
		} else {
			cells[i] = empty
		}
	}
	if p.Total > 0 {
		for _, m := range p.Marks {
			if m == 0 || m >= p.Total {
				continue
			}
			i := int(uint64(m) * uint64(p.Width) / uint64(p.Total))
			if i >= filled {
				cells[i] = mark
			}
		}
	}
	return string(cells)
}

// RenderKeyHelp lists key bindings under their section titles, with the
// descriptions lined up across all sections
func RenderKeyHelp(sections []KeySection) string {
	width := 0
	for _, sec := range sections {
		for _, k := range sec.Keys {
			width = max(width, len(k.Key))
		}
	}

	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-*s  %s", width, k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
