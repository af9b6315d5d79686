package widgets

import (
	"strings"
	"testing"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		p    Progress
		want string
	}{
		{"empty", Progress{Width: 4, Total: 8}, "...."},
		{"half", Progress{Width: 4, Total: 8, Position: 4}, "##.."},
		{"overrun", Progress{Width: 4, Total: 8, Position: 20}, "####"},
		{"marks ahead", Progress{Width: 8, Total: 8, Position: 2, Marks: []uint{4, 6}}, "##..|.|."},
		{"marks behind", Progress{Width: 8, Total: 8, Position: 5, Marks: []uint{4}}, "#####..."},
		{"edge marks", Progress{Width: 4, Total: 8, Marks: []uint{0, 8}}, "...."},
		{"no total", Progress{Width: 3}, "..."},
		{"no width", Progress{Total: 3}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderProgress(tt.p, '#', '.', '|'); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLampsLabels(t *testing.T) {
	out := RenderLamps([]Lamp{
		{Name: "fog", On: true},
		{Name: "eyes"},
	}, '*', 'o', [3]uint8{})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[1] != "fog  eyes" {
		t.Fatalf("labels %q", lines[1])
	}
	if !strings.Contains(lines[0], "*") || !strings.Contains(lines[0], "o") {
		t.Fatalf("lamps %q", lines[0])
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "Show", Keys: []KeyBinding{{"space", "trigger"}}},
		{Keys: []KeyBinding{{"q", "quit"}}},
	})
	if out != "Show\n  space  trigger\n  q      quit" {
		t.Fatalf("got %q", out)
	}
}
