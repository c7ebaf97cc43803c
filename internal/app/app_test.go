package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/dashboard"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/leaderboard"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
)

// step feeds msg to m without running the commands it returns. The
// guard resets the stack synchronously, so no command needs to run.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am
}

func published(m AppModel) tea.Msg {
	return screen.SessionMsg{Snapshot: m.env.Session.Snapshot()}
}

func name(m AppModel) string { return activeName(m.Active()) }

func TestGuardRoutes(t *testing.T) {
	e, _ := screentest.New(t)
	m := New(e)
	if name(m) != nameLoading {
		t.Fatalf("starts on %q", name(m))
	}

	m = step(t, m, initializedMsg{})
	if name(m) != screen.NameEntry {
		t.Fatalf("signed out lands on %q, want entry", name(m))
	}

	e.Session.EnterGuest()
	m = step(t, m, published(m))
	if name(m) != screen.NameOnboarding {
		t.Fatalf("new guest lands on %q, want onboarding", name(m))
	}

	p := *e.Session.Profile()
	p.Name, p.Age, p.Language = "Mgeni", "25", language.Luo
	if err := e.Session.SaveProfile(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	m = step(t, m, published(m))
	if name(m) != dashboard.Name {
		t.Fatalf("complete profile lands on %q, want dashboard", name(m))
	}

	// Open routes are left alone.
	m = step(t, m, router.PushScreenMsg{Screen: leaderboard.New(e)})
	m = step(t, m, published(m))
	if m.Depth() != 2 {
		t.Errorf("depth = %d, guard must not reset an open route", m.Depth())
	}

	if err := e.Session.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	m = step(t, m, published(m))
	if name(m) != screen.NameEntry || m.Depth() != 1 {
		t.Errorf("sign out lands on %q at depth %d", name(m), m.Depth())
	}
}

func TestLoadingSnapshotIgnored(t *testing.T) {
	e, _ := screentest.New(t)
	m := New(e)
	m = step(t, m, screen.SessionMsg{Snapshot: session.Snapshot{Loading: true}})
	if name(m) != nameLoading {
		t.Errorf("guard ran while loading, on %q", name(m))
	}
}

func TestEscPopsUnlessCaptured(t *testing.T) {
	e, _ := screentest.New(t)
	screentest.SignUp(t, e, "Wafula")
	m := step(t, New(e), initializedMsg{})
	if name(m) != dashboard.Name {
		t.Fatalf("signed in lands on %q", name(m))
	}

	m = step(t, m, screentest.Esc)
	if m.Depth() != 1 {
		t.Fatal("esc at the root must not pop")
	}

	m = step(t, m, router.PushScreenMsg{Screen: leaderboard.New(e)})
	m = step(t, m, screentest.Esc)
	if m.Depth() != 1 {
		t.Errorf("esc pops, depth = %d", m.Depth())
	}

	m = step(t, m, router.PushScreenMsg{Screen: &escScreen{}})
	m = step(t, m, screentest.Esc)
	if m.Depth() != 2 {
		t.Errorf("captured esc popped, depth = %d", m.Depth())
	}
	if !m.Active().(*escScreen).got {
		t.Error("captured esc not forwarded")
	}
}

type escScreen struct{ got bool }

func (s *escScreen) Init() tea.Cmd        { return nil }
func (s *escScreen) View(int, int) string { return "" }
func (s *escScreen) Title() string        { return "esc" }
func (s *escScreen) HandlesEsc() bool     { return true }
func (s *escScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "esc" {
		s.got = true
	}
	return s, nil
}

func TestToastExpires(t *testing.T) {
	e, _ := screentest.New(t)
	m := New(e)
	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = step(t, m, screen.ToastMsg{Text: "Karibu!"})
	first := m.toastSeq
	m = step(t, m, screen.ToastMsg{Text: "Hongera!"})
	if m.Toast() != "Hongera!" {
		t.Errorf("toast = %q", m.Toast())
	}

	m = step(t, m, toastExpiredMsg{seq: first})
	if m.Toast() != "Hongera!" {
		t.Errorf("stale expiry cleared %q", m.Toast())
	}
	m = step(t, m, toastExpiredMsg{seq: m.toastSeq})
	if m.Toast() != "" {
		t.Errorf("toast = %q after expiry", m.Toast())
	}
}

func TestHeaderStats(t *testing.T) {
	e, _ := screentest.New(t)
	m := New(e)
	e.Session.EnterGuest()
	if hs := m.headerStats(); !hs.Guest {
		t.Errorf("guest header = %+v", hs)
	}

	e2, _ := screentest.New(t)
	screentest.SignUp(t, e2, "Chebet")
	m2 := New(e2)
	m2 = step(t, m2, m2.stats.Request(e2.UserID(), true)())
	if hs := m2.headerStats(); !hs.Shown || hs.XP != 0 {
		t.Errorf("header = %+v", hs)
	}
}
