package cmd

import (
	"fmt"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent answer and lesson submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if kind != "" {
			opts.Limit = 0
		}
		events, err := s.EventRepo().Submissions(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		events = keepFirst(events, limit, func(e store.SubmissionEvent) bool {
			return kind == "" || e.Kind == kind
		})

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No submissions recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-22s  %-5s  %4s  %s\n",
			"Seq", "Timestamp", "Kind", "Lesson/Question", "Lang", "XP", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range events {
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-22s  %-5s  %4d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format(stampLayout),
				e.Kind,
				truncate(subject(e), 22),
				e.LanguageCode,
				e.XP,
				outcome(e),
			)
		}
		return nil
	},
}

// stampLayout formats event times in tables.
const stampLayout = "2006-01-02 15:04:05"

// keepFirst returns up to n items that pass keep, in order. n <= 0 keeps
// every match.
func keepFirst[T any](items []T, n int, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if n > 0 && len(out) == n {
			break
		}
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func subject(e store.SubmissionEvent) string {
	if e.Kind == store.KindAnswer && e.QuestionID != "" {
		return e.QuestionID
	}
	return e.LessonID
}

func outcome(e store.SubmissionEvent) string {
	switch {
	case !e.Success:
		return "✗ " + e.ErrorMessage
	case e.Kind == store.KindAnswer && e.Correct:
		return "✓ correct"
	case e.Kind == store.KindAnswer:
		return "✓ incorrect"
	default:
		return fmt.Sprintf("✓ score %d", e.Score)
	}
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().StringP("kind", "k", "", "Filter by kind (answer or completion)")
}
