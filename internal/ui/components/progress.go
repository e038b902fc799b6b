package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonscript/internal/ui/theme"
)

// ProgressBar is a one-line bar with an optional label and percentage.
// Percent is clamped to [0, 1] when drawn.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

// Filled returns the number of filled cells in a bar barWidth cells wide.
func (p ProgressBar) Filled(barWidth int) int {
	return max(0, min(int(float64(barWidth)*p.Percent), barWidth))
}

func (p ProgressBar) View() string {
	var label, percent string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.ShowPercent {
		pct := max(0, min(int(p.Percent*100), 100))
		percent = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %3d%%", pct))
	}

	width := max(p.Width-lipgloss.Width(label)-lipgloss.Width(percent), 4)
	filled := p.Filled(width)
	bar := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))

	return label + bar + percent
}
