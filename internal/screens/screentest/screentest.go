// Package screentest builds screen environments over the in-memory
// backend for tests.
package screentest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/logging"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
	"github.com/eltonarunga/lugha-learner-kenya/internal/submit"
)

// New returns an Env backed by a fresh Memory and a temporary database.
// The session is initialized and signed out.
func New(t *testing.T, opts ...backend.MemoryOption) (*env.Env, *backend.Memory) {
	t.Helper()
	mem := backend.NewMemory(opts...)

	db, err := store.Open(filepath.Join(t.TempDir(), "lugha.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logging.Discard()
	sess := session.New(db.SessionRepo(), mem, session.WithLogger(logger))
	sess.Initialize(context.Background())
	t.Cleanup(func() { sess.Close() })

	e := &env.Env{
		Session: sess,
		Backend: mem,
		Logger:  logger,
	}
	e.Submitter = submit.New(mem, db.EventRepo(), submit.WithLogger(logger), submit.WithUser(e.UserID))
	return e, mem
}

// SignUp creates an account and completes its profile so that the
// learner lands on the dashboard.
func SignUp(t *testing.T, e *env.Env, name string) {
	t.Helper()
	ctx := context.Background()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	if err := e.Session.SignUp(ctx, email, "secret123", name); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	p := e.Session.Profile()
	if p == nil {
		p = &session.Profile{}
	}
	p.Name, p.Age, p.Language = name, "30", language.Swahili
	if err := e.Session.SaveProfile(ctx, *p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
}

// Run executes cmd and every command nested in a batch, returning the
// messages they produce. Commands that block on timers are not special
// cased, so only pass commands known to return promptly.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Key builds a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Enter is the enter key.
var Enter = tea.KeyPressMsg{Code: tea.KeyEnter}

// Esc is the escape key.
var Esc = tea.KeyPressMsg{Code: tea.KeyEscape}

// Type sends each rune of s as a key press to update.
func Type(s string, update func(tea.Msg)) {
	for _, r := range s {
		update(Key(r))
	}
}
