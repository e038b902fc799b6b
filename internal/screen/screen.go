// Package screen defines what the app shell needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonscript/internal/ui/layout"
)

// Screen is one full-window view. View renders only the body; the app
// draws the header and footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider puts a short status, such as playback progress, on the
// right of the header.
type StatusProvider interface {
	Status() string
}
