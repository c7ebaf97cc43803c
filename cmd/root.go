package cmd

import (
	"github.com/eltonarunga/lugha-learner-kenya/internal/config"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lugha",
	Short: "Learn Kenyan languages in the terminal",
	Long:  "Lugha Learner Kenya: bite-sized lessons in Swahili, Kikuyu, Luo and Kalenjin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LUGHA_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Backend to use: http or memory (overrides LUGHA_BACKEND env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file read before the environment")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(devserverCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the .env file and the environment, then applies the
// persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Backend = b
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LUGHA_DB env var, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
