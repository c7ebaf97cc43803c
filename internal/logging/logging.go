// Package logging sets up the structured log file. The TUI owns the
// terminal, so nothing is written to stderr while it runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath resolves the log file path in priority order:
// 1. LUGHA_LOG_FILE environment variable
// 2. $XDG_STATE_HOME/lugha/lugha.log
// 3. ~/.local/state/lugha/lugha.log
func DefaultPath() (string, error) {
	if p := os.Getenv("LUGHA_LOG_FILE"); p != "" {
		return p, nil
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "lugha", "lugha.log"), nil
}

// ParseLevel maps LUGHA_LOG_LEVEL style names to a slog level. Unknown
// names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open appends to path, or DefaultPath when empty, and returns a text
// logger over it. The caller closes the returned closer on exit.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}
