package components

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/ui/theme"
)

// MultiChoice renders an MCQ element. Cursor is the highlighted option and
// Chosen holds the selected option keys.
type MultiChoice struct {
	Question string
	Options  script.Options
	Multiple bool
	Cursor   int
	Chosen   []string

	// Correct is highlighted once Reveal is set.
	Correct []string
	Reveal  bool
}

// NewMultiChoice creates a multiple-choice view for mcq.
func NewMultiChoice(mcq *script.MCQElement) MultiChoice {
	return MultiChoice{
		Question: mcq.Question,
		Options:  mcq.Options,
		Multiple: mcq.QuestionType == script.Multiple,
		Correct:  mcq.CorrectOptions,
	}
}

// Move shifts the cursor by delta, clamped to the option list.
func (m MultiChoice) Move(delta int) MultiChoice {
	m.Cursor = max(0, min(m.Cursor+delta, len(m.Options)-1))
	return m
}

// CursorKey returns the option key under the cursor.
func (m MultiChoice) CursorKey() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return ""
	}
	return m.Options[m.Cursor].Key
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, m.mark(opt.Key), opt.Key, opt.Text)

		style := theme.Unselected
		switch {
		case m.Reveal && slices.Contains(m.Correct, opt.Key):
			style = theme.Correct
		case m.Reveal && slices.Contains(m.Chosen, opt.Key):
			style = theme.Incorrect
		case m.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MultiChoice) mark(key string) string {
	chosen := slices.Contains(m.Chosen, key)
	switch {
	case m.Multiple && chosen:
		return "[x]"
	case m.Multiple:
		return "[ ]"
	case chosen:
		return "(•)"
	default:
		return "( )"
	}
}
