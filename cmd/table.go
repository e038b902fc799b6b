package cmd

import (
	"io"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/lessonscript/internal/ui/theme"
)

// printTable writes rows under headers as a bordered table. Numeric
// columns listed in right are right-aligned.
func printTable(w io.Writer, headers []string, rows [][]string, right ...int) {
	alignRight := make(map[int]bool, len(right))
	for _, c := range right {
		alignRight[c] = true
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = theme.TableHeader
			}
			if alignRight[col] {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	lipgloss.Fprintln(w, t.String())
}

func itoa[T ~int | ~int64](n T) string {
	return strconv.FormatInt(int64(n), 10)
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
