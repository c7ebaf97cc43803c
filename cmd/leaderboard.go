package cmd

import (
	"fmt"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/progress"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the public leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		limit := d.cfg.LeaderboardLimit
		if cmd.Flags().Changed("limit") {
			limit, _ = cmd.Flags().GetInt("limit")
		}
		if limit < 1 {
			return fmt.Errorf("limit must be at least 1, got %d", limit)
		}

		entries, err := d.backend.Leaderboard(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetch leaderboard: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "The leaderboard is empty.")
			return nil
		}

		uid := d.session.Snapshot().UserID()
		fmt.Fprintf(out, "%-5s  %-28s  %8s  %6s\n", "Rank", "Name", "XP", "Streak")
		fmt.Fprintln(out, strings.Repeat("─", 54))
		for _, e := range entries {
			marker := ""
			if uid != "" && e.UserID == uid {
				marker = "  ← you"
			}
			fmt.Fprintf(out, "%-5d  %-28s  %8d  %6d%s\n",
				e.Rank, truncate(e.Name, 28), e.TotalXP, e.CurrentStreak, marker)
		}

		if uid != "" {
			if _, ok := progress.FindSelf(entries, uid); !ok {
				fmt.Fprintf(out, "\nYou are not in the top %d yet.\n", limit)
			}
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", 50, "Number of rows to show (defaults to LUGHA_LEADERBOARD_LIMIT)")
}
