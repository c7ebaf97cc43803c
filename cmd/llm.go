package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/llm"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect conversation partner LLM requests",
}

// openEventStore opens the local database for read-only inspection.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the latest partner requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if purpose != "" {
			opts.Limit = 0
		}
		events, err := s.EventRepo().LLMRequests(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query llm requests: %w", err)
		}
		events = keepFirst(events, limit, func(e store.LLMRequestEvent) bool {
			return purpose == "" || e.Purpose == purpose
		})

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No partner requests recorded.")
			return nil
		}

		const row = "%-5v  %-19v  %-14v  %-28v  %6v  %6v  %7v  %v\n"
		fmt.Fprintf(out, row, "Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 104))
		for _, e := range events {
			result := "✓"
			if !e.Success {
				result = "✗ " + truncate(e.ErrorMessage, 30)
			}
			fmt.Fprintf(out, row, e.Sequence, e.Timestamp.Local().Format(stampLayout), e.Purpose,
				truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, result)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "Print one partner request with its prompt and reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || seq <= 0 {
			return fmt.Errorf("sequence must be a positive number, got %q", args[0])
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.EventRepo().LLMRequests(cmd.Context(), store.QueryOpts{After: seq - 1, Before: seq + 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("query llm request: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("no partner request with sequence %d", seq)
		}
		e := found[0]

		out := cmd.OutOrStdout()
		fields := [][2]string{
			{"Sequence", strconv.FormatInt(e.Sequence, 10)},
			{"Time", e.Timestamp.Local().Format(stampLayout)},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
			{"Success", strconv.FormatBool(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		for _, f := range fields {
			fmt.Fprintf(out, "%-10s %s\n", f[0]+":", f[1])
		}

		rule := strings.Repeat("─", 60)
		section := func(label, body string) {
			if body == "" {
				body = "(not captured)"
			}
			fmt.Fprintf(out, "\n%s\n%s\n%s\n%s\n", rule, label, rule, body)
		}
		section("Prompt", e.RequestBody)
		section("Reply", e.ResponseBody)
		return nil
	},
}

type modelUsage struct {
	model        string
	calls        int
	inputTokens  int
	outputTokens int
	events       []store.LLMRequestEvent
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated spend per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().LLMRequests(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		byModel := map[string]*modelUsage{}
		for _, e := range events {
			mu, ok := byModel[e.Model]
			if !ok {
				mu = &modelUsage{model: e.Model}
				byModel[e.Model] = mu
			}
			mu.calls++
			mu.inputTokens += e.InputTokens
			mu.outputTokens += e.OutputTokens
			mu.events = append(mu.events, e)
		}
		usage := make([]*modelUsage, 0, len(byModel))
		for _, mu := range byModel {
			usage = append(usage, mu)
		}
		sort.Slice(usage, func(i, j int) bool { return usage[i].calls > usage[j].calls })

		fmt.Fprintln(out, "Estimated Cost (USD)")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
			"Model", "Calls", "Input", "Output", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 72))

		var unknownModels []string
		for _, mu := range usage {
			cost, priced := llm.TotalCost(mu.events)
			if priced == 0 {
				unknownModels = append(unknownModels, mu.model)
				fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
					truncate(mu.model, 32), mu.calls, mu.inputTokens, mu.outputTokens, "?")
				continue
			}
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.model, 32), mu.calls, mu.inputTokens, mu.outputTokens, formatCost(cost))
		}

		total, _ := llm.TotalCost(events)
		fmt.Fprintln(out, strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(out, "%-32s  %6d  %10s  %10s  %10s\n", label, len(events), "", "", formatCost(total))

		if len(unknownModels) > 0 {
			fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

// formatCost keeps fractions of a cent visible.
func formatCost(usd float64) string {
	prec := 2
	if usd < 0.01 {
		prec = 4
	}
	return "$" + strconv.FormatFloat(usd, 'f', prec, 64)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Maximum number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests made for this purpose, such as "+llm.PurposeConversation)

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
