package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/devserver"
	"github.com/eltonarunga/lugha-learner-kenya/internal/logging"
	"github.com/spf13/cobra"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Serve the seeded in-memory backend over HTTP",
	Long: `Run a local backend that speaks the same REST, RPC and auth endpoints
as the hosted project, backed by the seeded in-memory data.

Point the client at it with:

  LUGHA_BACKEND_URL=http://127.0.0.1:54321 LUGHA_ANON_KEY=lugha-dev-anon-key lugha`,
	RunE: runDevserver,
}

func init() {
	devserverCmd.Flags().String("addr", "127.0.0.1:54321", "Listen address")
	devserverCmd.Flags().String("anon-key", devserver.DefaultAnonKey, "API key clients must send")
	devserverCmd.Flags().Bool("verbose", false, "Log every request to stderr")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	key, _ := cmd.Flags().GetString("anon-key")
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := logging.ParseLevel(os.Getenv("LUGHA_LOG_LEVEL"))
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	srv := devserver.New(backend.NewMemory(),
		devserver.WithAnonKey(key),
		devserver.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(addr) }()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (anon key %q). Ctrl+C to stop.\n", addr, srv.AnonKey())

	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
