// Package config resolves client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend kinds.
const (
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

// Config holds everything the client needs to reach the backend and to
// keep local state.
type Config struct {
	// Backend selects the data source: "http" talks to the hosted
	// project, "memory" uses the seeded in-process backend.
	Backend string

	// BackendURL is the project base URL, e.g. https://xyz.supabase.co.
	BackendURL string

	// AnonKey is the public API key sent with every request.
	AnonKey string

	// RequestTimeout bounds a single backend call.
	RequestTimeout time.Duration

	// RefreshInterval is how often the session checks whether the access
	// token needs refreshing.
	RefreshInterval time.Duration

	// LeaderboardLimit is the number of rows requested from the
	// public leaderboard.
	LeaderboardLimit int

	// DBPath is the local SQLite file. Empty means the XDG default.
	DBPath string

	// LogFile receives structured logs. Empty means the XDG default.
	LogFile string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendHTTP,
		RequestTimeout:   15 * time.Second,
		RefreshInterval:  time.Minute,
		LeaderboardLimit: 50,
	}
}

// Load reads a .env file from path when it exists, then builds the Config
// from the environment. Variables already set in the process win over
// the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from LUGHA_* variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("LUGHA_BACKEND"); v != "" {
		cfg.Backend = v
	}
	cfg.BackendURL = os.Getenv("LUGHA_BACKEND_URL")
	cfg.AnonKey = os.Getenv("LUGHA_ANON_KEY")
	cfg.DBPath = os.Getenv("LUGHA_DB")
	cfg.LogFile = os.Getenv("LUGHA_LOG_FILE")

	var err error
	if cfg.RequestTimeout, err = durationEnv("LUGHA_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = durationEnv("LUGHA_REFRESH_INTERVAL", cfg.RefreshInterval); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("LUGHA_LEADERBOARD_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LUGHA_LEADERBOARD_LIMIT: %w", err)
		}
		cfg.LeaderboardLimit = n
	}

	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.BackendURL == "" {
			return fmt.Errorf("LUGHA_BACKEND_URL is required for the http backend")
		}
		u, err := url.Parse(c.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("LUGHA_BACKEND_URL %q is not an absolute URL", c.BackendURL)
		}
		if c.AnonKey == "" {
			return fmt.Errorf("LUGHA_ANON_KEY is required for the http backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval)
	}
	if c.LeaderboardLimit < 1 {
		return fmt.Errorf("leaderboard limit must be at least 1, got %d", c.LeaderboardLimit)
	}
	return nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
