package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent compile or playback events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		playback, _ := cmd.Flags().GetBool("playback")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if playback {
			return printPlayback(cmd, st, limit)
		}
		return printCompiles(cmd, st, limit)
	},
}

func printCompiles(cmd *cobra.Command, st *store.Store, limit int) error {
	events, err := st.EventRepo().QueryCompileEvents(cmd.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No compile events found.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		title := e.Title
		if title == "" {
			title = e.Topic
		}
		outcome := e.Outcome
		if e.ErrorMessage != "" {
			outcome += ": " + truncate(e.ErrorMessage, 40)
		}
		rows = append(rows, []string{itoa(e.ID), stamp(e.Timestamp), e.Source, truncate(title, 40),
			itoa(e.EventCount), itoa(e.QuizCount), itoa(e.LatencyMs), outcome})
	}
	printTable(cmd.OutOrStdout(),
		[]string{"ID", "Timestamp", "Source", "Title", "Events", "Quiz", "Ms", "Outcome"}, rows, 0, 4, 5, 6)
	return nil
}

func printPlayback(cmd *cobra.Command, st *store.Store, limit int) error {
	events, err := st.EventRepo().QueryPlaybackEvents(cmd.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No playback events found.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{itoa(e.ID), stamp(e.Timestamp), truncate(e.SessionID, 8),
			e.Trigger, e.FromEvent, e.ToEvent, formatSelected(e.Selected)})
	}
	printTable(cmd.OutOrStdout(),
		[]string{"ID", "Timestamp", "Session", "Trigger", "From", "To", "Selected"}, rows, 0)
	return nil
}

// formatSelected renders selections as "elem=A,B" pairs sorted by element.
func formatSelected(sel map[string][]string) string {
	var parts []string
	for _, id := range slices.Sorted(maps.Keys(sel)) {
		parts = append(parts, id+"="+strings.Join(sel[id], ","))
	}
	return strings.Join(parts, " ")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().Bool("playback", false, "Show playback events instead of compile events")
}
