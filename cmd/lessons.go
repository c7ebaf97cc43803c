package cmd

import (
	"fmt"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/spf13/cobra"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List active lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		var code language.Code
		if v, _ := cmd.Flags().GetString("language"); v != "" {
			c, err := language.Parse(v)
			if err != nil {
				return err
			}
			code = c
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		lessons, err := d.backend.Lessons(cmd.Context(), code)
		if err != nil {
			return fmt.Errorf("fetch lessons: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(lessons) == 0 {
			fmt.Fprintln(out, "No lessons available.")
			return nil
		}

		fmt.Fprintf(out, "%-4s  %-10s  %-5s  %-36s  %5s  %s\n",
			"#", "Language", "Level", "Title", "XP", "Type")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		for _, l := range lessons {
			fmt.Fprintf(out, "%-4d  %-10s  %-5d  %-36s  %5d  %s\n",
				l.OrderIndex, l.LanguageCode.Label(), l.Level, truncate(l.Title, 36), l.XPReward, l.LessonType)
		}
		return nil
	},
}

func init() {
	lessonsCmd.Flags().StringP("language", "l", "", "Only lessons in this language (code, English name or native name)")
}
