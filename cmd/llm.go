package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonscript/internal/llm"
	"github.com/abhisek/lessonscript/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM requests made by the llm lesson source",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var rows [][]string
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			rows = append(rows, []string{
				itoa(e.ID), stamp(e.Timestamp), e.Purpose, truncate(e.Model, 28),
				itoa(e.InputTokens), itoa(e.OutputTokens), itoa(e.LatencyMs), ok,
			})
		}
		if len(rows) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}
		printTable(cmd.OutOrStdout(),
			[]string{"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK"}, rows, 0, 4, 5, 6)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:        %d\n", e.ID)
		fmt.Fprintf(w, "Time:      %s\n", stamp(e.Timestamp))
		fmt.Fprintf(w, "Provider:  %s (%s)\n", e.Provider, e.Model)
		fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(w, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
		}

		sep := strings.Repeat("─", 60)
		for _, part := range []struct{ name, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			body := part.body
			if body == "" {
				body = "(not captured)"
			}
			fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", sep, part.name, sep, body)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		w := cmd.OutOrStdout()
		var calls, in, out int
		rows := make([][]string, 0, len(stats)+1)
		for _, st := range stats {
			rows = append(rows, []string{st.Purpose, itoa(st.Calls), itoa(st.InputTokens),
				itoa(st.OutputTokens), itoa(st.InputTokens + st.OutputTokens), itoa(st.AvgLatencyMs)})
			calls += st.Calls
			in += st.InputTokens
			out += st.OutputTokens
		}
		rows = append(rows, []string{"TOTAL", itoa(calls), itoa(in), itoa(out), itoa(in + out), ""})
		fmt.Fprintln(w, "Usage by Purpose")
		printTable(w, []string{"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"}, rows, 1, 2, 3, 4, 5)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		var (
			total   float64
			unknown []string
		)
		rows = rows[:0]
		for _, mu := range byModel {
			cost := "?"
			if c := llm.LookupCost(mu.Model); c != nil {
				usd := c.Cost(mu.InputTokens, mu.OutputTokens)
				total += usd
				cost = formatCost(usd)
			} else {
				unknown = append(unknown, mu.Model)
			}
			rows = append(rows, []string{truncate(mu.Model, 32), itoa(mu.Calls),
				itoa(mu.InputTokens), itoa(mu.OutputTokens), cost})
		}
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		rows = append(rows, []string{label, "", "", "", formatCost(total)})

		fmt.Fprintln(w, "\nEstimated Cost (USD)")
		printTable(w, []string{"Model", "Calls", "Input", "Output", "Cost"}, rows, 1, 2, 3, 4)
		if len(unknown) > 0 {
			fmt.Fprintf(w, "Pricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (lesson or chat)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
