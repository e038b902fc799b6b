// Package layout draws the frame around every screen: a header bar with
// the lesson title, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonscript/internal/ui/theme"
)

// Smallest terminal the player renders in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "Key Description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Terminal too small!\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader renders the brand on the left, title centred and status
// right-aligned. status may be empty.
func RenderHeader(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  LessonScript")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")

	inner := max(width-4, 0)
	side := max(lipgloss.Width(brand), lipgloss.Width(right))
	middle := lipgloss.NewStyle().
		Width(max(inner-2*side, lipgloss.Width(title))).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(title)

	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(side, lipgloss.Left, brand),
		middle,
		lipgloss.PlaceHorizontal(side, lipgloss.Right, right),
	)
	return bar(width).Render(row)
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, sizing the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
