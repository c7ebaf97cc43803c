// Package env bundles what screens need from the rest of the client.
package env

import (
	"log/slog"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/conversation"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
	"github.com/eltonarunga/lugha-learner-kenya/internal/submit"
)

// DefaultLeaderboardLimit is used when Env.LeaderboardLimit is unset.
const DefaultLeaderboardLimit = 50

// Env is shared by every screen. Screens only read its fields.
type Env struct {
	Session   *session.Store
	Backend   backend.Backend
	Submitter *submit.Submitter

	// Partner voices conversation practice. Nil keeps it scripted.
	Partner conversation.Partner
	// PartnerTimeout bounds one partner reply, retries included.
	PartnerTimeout time.Duration

	Logger           *slog.Logger
	RequestTimeout   time.Duration
	LeaderboardLimit int
	Now              func() time.Time
}

// ResourceOptions returns the options every screen resource is built with.
func (e *Env) ResourceOptions() []resource.Option {
	opts := []resource.Option{resource.WithLogger(e.logger())}
	if e.RequestTimeout > 0 {
		opts = append(opts, resource.WithTimeout(e.RequestTimeout))
	}
	return opts
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Log returns the configured logger or the default.
func (e *Env) Log() *slog.Logger { return e.logger() }

// Clock returns the current time.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Timeout returns the per-call timeout for screen commands.
func (e *Env) Timeout() time.Duration {
	if e.RequestTimeout <= 0 {
		return resource.DefaultTimeout
	}
	return e.RequestTimeout
}

// ReplyTimeout returns the bound on one conversation partner reply.
func (e *Env) ReplyTimeout() time.Duration {
	if e.PartnerTimeout <= 0 {
		return conversation.DefaultTimeout
	}
	return e.PartnerTimeout
}

// Limit returns the leaderboard row limit.
func (e *Env) Limit() int {
	if e.LeaderboardLimit <= 0 {
		return DefaultLeaderboardLimit
	}
	return e.LeaderboardLimit
}

// Profile returns the cached learner profile, or nil.
func (e *Env) Profile() *session.Profile {
	if e.Session == nil {
		return nil
	}
	return e.Session.Profile()
}

// Language returns the current profile language, or "" when unset.
func (e *Env) Language() language.Code {
	if p := e.Profile(); p != nil {
		return p.Language
	}
	return ""
}

// UserID returns the signed-in user id, or "" for guests.
func (e *Env) UserID() string {
	if e.Session == nil {
		return ""
	}
	return e.Session.Snapshot().UserID()
}
