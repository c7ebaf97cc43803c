package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/config"
	"github.com/eltonarunga/lugha-learner-kenya/internal/logging"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
	"github.com/spf13/cobra"
)

// deps is what every command that talks to the backend needs.
type deps struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *store.Store
	backend backend.Service
	session *session.Store

	closers []io.Closer
}

// openDeps loads configuration, opens the log file and the local store,
// and builds the backend and session store. The persisted session is
// not restored; the TUI does that behind its loading screen.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	d := &deps{cfg: cfg}
	logger, closer, err := logging.Open(cfg.LogFile, logging.ParseLevel(os.Getenv("LUGHA_LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	d.logger = logger
	d.closers = append(d.closers, closer)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, st)

	d.backend, err = newBackend(cfg, logger)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.session = session.New(st.SessionRepo(), d.backend,
		session.WithLogger(logger),
		session.WithRefreshInterval(cfg.RefreshInterval),
	)
	logger.Debug("dependencies ready", "backend", cfg.Backend, "db", dbPath, "command", cmd.Name())
	return d, nil
}

// openSession is openDeps followed by restoring the persisted session.
func openSession(cmd *cobra.Command) (*deps, error) {
	d, err := openDeps(cmd)
	if err != nil {
		return nil, err
	}
	d.session.Initialize(cmd.Context())
	return d, nil
}

func newBackend(cfg config.Config, logger *slog.Logger) (backend.Service, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return backend.NewMemory(), nil
	default:
		c, err := backend.NewClient(backend.ClientConfig{
			BaseURL: cfg.BackendURL,
			AnonKey: cfg.AnonKey,
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create backend client: %w", err)
		}
		return c, nil
	}
}

// requireUser returns the signed-in user id.
func (d *deps) requireUser() (string, error) {
	uid := d.session.Snapshot().UserID()
	if uid == "" {
		return "", fmt.Errorf("not signed in: run `lugha login` first")
	}
	return uid, nil
}

// Close releases everything openDeps acquired, newest first.
func (d *deps) Close() {
	if d.session != nil {
		_ = d.session.Close()
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}
