package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/lessonscript/internal/markup"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/ui/components"
	"github.com/abhisek/lessonscript/internal/ui/theme"
)

func (p *PlayerScreen) View(width, height int) string {
	var b strings.Builder

	percent := 1.0
	if p.total > 0 && !p.machine.Done() {
		percent = float64(p.steps) / float64(p.total)
	}
	b.WriteString("  ")
	b.WriteString(components.NewProgressBar("Progress", percent, true, width-4).View())
	b.WriteString("\n\n")

	if p.machine.Done() {
		b.WriteString(renderFinished(width))
		return b.String()
	}

	ev := p.machine.Current()
	if w, ok := ev.(*script.Wait); ok {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render(fmt.Sprintf("… pausing for %.1fs", float64(w.WaitTime)/1000)))
		return b.String()
	}

	boardWidth := max(width-6, 20)
	var board []string
	for _, el := range script.ElementsOf(ev) {
		board = append(board, p.renderElement(el, boardWidth-4))
	}
	b.WriteString(theme.Whiteboard.Width(boardWidth).MarginLeft(2).
		Render(strings.Join(board, "\n\n")))
	b.WriteString("\n\n")

	if speech := markup.Plain(script.SpeechOf(ev)); speech != "" {
		line := speech
		if g := script.GestureOf(ev); g != "" {
			line = fmt.Sprintf("[%s] %s", strings.ToLower(string(g)), speech)
		}
		b.WriteString(theme.Speech.Width(boardWidth).MarginLeft(2).Render(line))
		b.WriteString("\n")
	}

	if p.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.MarginLeft(2).Render(p.errMsg))
	}
	return b.String()
}

func (p *PlayerScreen) renderElement(el script.Element, width int) string {
	switch el := el.(type) {
	case *script.TextElement:
		text := strings.ReplaceAll(el.Content, "<br>", "\n")
		return theme.Body.Width(width).Render(text)
	case *script.EquationElement:
		return theme.Equation.Render(el.KatexContent)
	case *script.MCQElement:
		if el.ElementID == p.mcqID {
			return p.choice.View()
		}
		return components.NewMultiChoice(el).View()
	case *script.Table2Element:
		return renderTable(el)
	}
	return ""
}

func renderTable(el *script.Table2Element) string {
	border := lipgloss.HiddenBorder()
	if el.RenderBorder {
		border = lipgloss.RoundedBorder()
	}
	t := table.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(el.Header...).
		Rows(el.Content...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return theme.TableHeader
			case el.RowIndex != nil && el.ColumnIndex != nil && row == *el.RowIndex && col == *el.ColumnIndex:
				return theme.TableHighlight
			default:
				return theme.TableCell
			}
		})
	return t.String()
}

func renderFinished(width int) string {
	title := theme.Title.Width(width).Render("Lesson complete!")
	hint := theme.Subtitle.Width(width).Render("Press R to play again or Q to quit")
	return "\n" + title + "\n\n" + hint
}
