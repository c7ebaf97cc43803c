package leaderboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
)

type flakyBoard struct {
	backend.Backend
	fails int
	calls int
}

func (f *flakyBoard) Leaderboard(ctx context.Context, limit int) ([]backend.LeaderboardEntry, error) {
	f.calls++
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("timeout")
	}
	return f.Backend.Leaderboard(ctx, limit)
}

func deliver(s *Screen, cmd tea.Cmd) {
	for _, msg := range screentest.Run(cmd) {
		s.Update(msg)
	}
}

func TestManualRetry(t *testing.T) {
	e, mem := screentest.New(t)
	flaky := &flakyBoard{Backend: mem, fails: 1}
	e.Backend = flaky
	s := New(e)

	deliver(s, s.Init())
	if s.Err() == "" {
		t.Fatal("expected an error after the failed fetch")
	}
	if !strings.Contains(s.View(80, 24), "Failed to load leaderboard") {
		t.Error("error view should show the resource message")
	}
	if flaky.calls != 1 {
		t.Fatalf("calls = %d, no automatic retry expected", flaky.calls)
	}

	_, cmd := s.Update(screentest.Key('r'))
	deliver(s, cmd)
	if s.Err() != "" {
		t.Fatalf("unexpected error after retry: %s", s.Err())
	}
	if len(s.Entries()) == 0 {
		t.Error("expected rows after retry")
	}
}

func TestYourRankFoundByID(t *testing.T) {
	e, _ := screentest.New(t)
	// Same display name as a seeded leader.
	screentest.SignUp(t, e, "Baraka Mwangi")
	s := New(e)
	deliver(s, s.Init())

	view := s.View(100, 40)
	if !strings.Contains(view, "Your rank") {
		t.Fatal("expected the rank card for a signed-in learner on the board")
	}
	if !strings.Contains(view, "#6") {
		t.Error("the new learner has no XP and ranks after the five seeded leaders")
	}
	if n := strings.Count(view, "(you)"); n != 1 {
		t.Errorf("(you) marked %d times, want exactly the learner's own row", n)
	}
}

func TestGuestHasNoRankCard(t *testing.T) {
	e, _ := screentest.New(t)
	e.Session.EnterGuest()
	s := New(e)
	deliver(s, s.Init())

	if strings.Contains(s.View(100, 40), "Your rank") {
		t.Error("guests are never on the board")
	}
}
