package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/progress"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		uid, err := d.requireUser()
		if err != nil {
			return err
		}
		st, err := resource.FetchStats(cmd.Context(), d.backend, uid, time.Now())
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if p := d.session.Snapshot().Profile; p != nil && p.Name != "" {
			fmt.Fprintf(out, "%s · learning %s\n", p.Name, p.Language.Label())
			fmt.Fprintln(out, strings.Repeat("─", 40))
		}
		fmt.Fprintf(out, "Level:           %d (%d XP to next)\n", st.Level, progress.XPToNextLevel(st.TotalXP))
		fmt.Fprintf(out, "Total XP:        %d\n", st.TotalXP)
		fmt.Fprintf(out, "Today:           %d / %d XP\n", st.TodayXP, progress.DailyGoal)
		fmt.Fprintf(out, "This week:       %d / %d XP\n", st.WeeklyXP, progress.WeeklyGoal)
		fmt.Fprintf(out, "Streak:          %d days (best %d)\n", st.CurrentStreak, st.LongestStreak)
		fmt.Fprintf(out, "Lessons done:    %d\n", st.LessonsCompleted)

		if len(st.Daily) > 0 {
			fmt.Fprintln(out)
			for _, day := range st.Daily {
				fmt.Fprintf(out, "%s  %4d  %s\n", day.Day, day.XP, strings.Repeat("■", min(day.XP/5, 40)))
			}
		}
		return nil
	},
}
