package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local database (stored session and event log)",
	Long: `Delete the local SQLite database. This signs you out on this machine
and removes the local submission and LLM event log. Progress stored on
the backend is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		if !yes {
			return fmt.Errorf("this deletes %s; rerun with --yes to confirm", dbPath)
		}

		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
