package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar renders one-line strips (header, tabs, command hints) on a solid
// background. Every segment carries the background itself because the reset
// after a styled segment would otherwise leave gaps.
// See https://github.com/charmbracelet/lipgloss/discussions/78
type bar struct {
	bg lipgloss.Color
}

func newBar(color string) bar {
	return bar{bg: lipgloss.Color(color)}
}

// text renders s in style over the bar background.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	return style.Background(b.bg).Render(s)
}

// gap returns n background-colored spaces.
func (b bar) gap(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// join concatenates non-empty parts separated by n spaces.
func (b bar) join(parts []string, n int) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, b.gap(n))
}

// line pads content to width.
func (b bar) line(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}
