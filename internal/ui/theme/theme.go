// Package theme holds the colours and styles of the terminal player: chalk
// on a green board.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#38BDF8") // sky
	Secondary = lipgloss.Color("#A3E635") // lime
	Accent    = lipgloss.Color("#FBBF24") // amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F1F5F9") // chalk
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1F17") // board
	BgCard    = lipgloss.Color("#13291F")
	Border    = lipgloss.Color("#2F4A3C")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	// Speech is the narration line under the whiteboard.
	Speech = lipgloss.NewStyle().Foreground(Accent).Italic(true)

	// Equation shows KaTeX source as written.
	Equation = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	// Whiteboard frames the elements of the current event.
	Whiteboard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)
)

// Option and answer states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	TableHeader    = lipgloss.NewStyle().Foreground(Primary).Bold(true).Padding(0, 1)
	TableCell      = lipgloss.NewStyle().Foreground(Text).Padding(0, 1)
	TableHighlight = lipgloss.NewStyle().Foreground(BgDark).Background(Accent).Bold(true).Padding(0, 1)
)
