package lesson

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	lsn "github.com/eltonarunga/lugha-learner-kenya/internal/lesson"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/screentest"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
)

func greetings(t *testing.T, b backend.Backend) backend.Lesson {
	t.Helper()
	ls, err := b.Lessons(context.Background(), language.Swahili)
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	for _, l := range ls {
		if l.ID == "sw-greetings" {
			return l
		}
	}
	t.Fatal("sw-greetings not seeded")
	return backend.Lesson{}
}

// feed delivers every message cmd produces and returns the commands the
// screen hands back.
func feed(s *Screen, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range screentest.Run(cmd) {
		_, next := s.Update(msg)
		out = append(out, msg)
		out = append(out, screentest.Run(next)...)
	}
	return out
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func playAll(t *testing.T, s *Screen, picks []int) []tea.Msg {
	t.Helper()
	feed(s, s.Init())
	if s.runner.Phase() != lsn.PhasePresenting {
		t.Fatalf("expected presenting after load, got %v", s.runner.Phase())
	}

	var last []tea.Msg
	for i, pick := range picks {
		_, cmd := s.Update(components.ChooseMsg{Index: pick})
		if s.runner.Phase() != lsn.PhaseFeedback {
			t.Fatalf("question %d: expected feedback, got %v", i, s.runner.Phase())
		}
		if s.choice.Marks[pick] != components.MarkPending {
			t.Errorf("question %d: chosen option should be pending before the verdict", i)
		}
		feed(s, cmd)

		_, cmd = s.Update(screentest.Enter)
		last = feed(s, cmd)
	}
	return last
}

func TestHappyPathAgainstMemory(t *testing.T) {
	e, mem := screentest.New(t)
	screentest.SignUp(t, e, "amani")
	s := New(e, greetings(t, mem))

	msgs := playAll(t, s, []int{0, 1, 0})

	if got := s.runner.Score(); got != 3 {
		t.Errorf("score = %d, want 3", got)
	}
	toast, ok := find[screen.ToastMsg](msgs)
	if !ok {
		t.Fatal("expected a toast after completion")
	}
	if want := "Lesson Complete! You earned 35 XP!"; toast.Text != want {
		t.Errorf("toast = %q, want %q", toast.Text, want)
	}
	if _, ok := find[router.PopScreenMsg](msgs); !ok {
		t.Error("expected navigation back to the dashboard")
	}
	if _, ok := find[screen.StatsChangedMsg](msgs); !ok {
		t.Error("expected a stats refresh")
	}

	row, err := mem.Profile(context.Background(), e.UserID())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if row.TotalXP == 0 {
		t.Error("completion should have been recorded")
	}
}

func TestGuestCompletionUsesFallbackToast(t *testing.T) {
	e, mem := screentest.New(t)
	e.Session.EnterGuest()
	s := New(e, greetings(t, mem))

	msgs := playAll(t, s, []int{1, 1, 1})

	toast, ok := find[screen.ToastMsg](msgs)
	if !ok {
		t.Fatal("expected a toast")
	}
	if want := "Lesson Complete! Great job! Your progress will be saved shortly."; toast.Text != want {
		t.Errorf("toast = %q, want %q", toast.Text, want)
	}
	if _, ok := find[router.PopScreenMsg](msgs); !ok {
		t.Error("a failed completion still returns to the dashboard")
	}
}

func TestEnterWaitsForVerdict(t *testing.T) {
	e, mem := screentest.New(t)
	s := New(e, greetings(t, mem))
	feed(s, s.Init())

	_, verdict := s.Update(components.ChooseMsg{Index: 0})
	_, cmd := s.Update(screentest.Enter)
	if cmd != nil || s.runner.Index() != 0 {
		t.Fatal("enter must not advance while the verdict is pending")
	}
	feed(s, verdict)
	if s.choice.Marks[0] != components.MarkCorrect {
		t.Errorf("mark = %v, want correct", s.choice.Marks[0])
	}
	s.Update(screentest.Enter)
	if s.runner.Index() != 1 {
		t.Errorf("index = %d, want 1", s.runner.Index())
	}
}

// failingQuestions fails the first n question fetches.
type failingQuestions struct {
	backend.Backend
	fails int
}

func (f *failingQuestions) Questions(ctx context.Context, id string) ([]backend.Question, error) {
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("connection refused")
	}
	return f.Backend.Questions(ctx, id)
}

func TestRetryAfterLoadFailure(t *testing.T) {
	e, mem := screentest.New(t)
	e.Backend = &failingQuestions{Backend: mem, fails: 1}
	s := New(e, greetings(t, mem))

	feed(s, s.Init())
	if s.runner.Phase() != lsn.PhaseFailed {
		t.Fatalf("phase = %v, want failed", s.runner.Phase())
	}
	if s.runner.Err() == "" {
		t.Error("expected an error message")
	}

	_, cmd := s.Update(screentest.Key('r'))
	if s.runner.Phase() != lsn.PhaseLoading {
		t.Fatalf("phase = %v, want loading after retry", s.runner.Phase())
	}
	feed(s, cmd)
	if s.runner.Phase() != lsn.PhasePresenting {
		t.Errorf("phase = %v, want presenting", s.runner.Phase())
	}
}

func TestEmptyLesson(t *testing.T) {
	e, _ := screentest.New(t)
	s := New(e, backend.Lesson{ID: "nothing-here", Title: "Empty"})
	feed(s, s.Init())
	if s.runner.Phase() != lsn.PhaseEmpty {
		t.Fatalf("phase = %v, want empty", s.runner.Phase())
	}
	_, cmd := s.Update(screentest.Esc)
	if _, ok := find[router.PopScreenMsg](screentest.Run(cmd)); !ok {
		t.Error("esc on an empty lesson goes back")
	}
}

func TestQuitConfirm(t *testing.T) {
	e, mem := screentest.New(t)
	s := New(e, greetings(t, mem))
	feed(s, s.Init())

	s.Update(screentest.Esc)
	if !s.quitConfirm {
		t.Fatal("esc should ask before leaving")
	}
	s.Update(screentest.Key('n'))
	if s.quitConfirm {
		t.Fatal("n keeps the lesson going")
	}

	s.Update(screentest.Esc)
	_, cmd := s.Update(screentest.Key('y'))
	if _, ok := find[router.PopScreenMsg](screentest.Run(cmd)); !ok {
		t.Error("y leaves the lesson")
	}
}

func TestLeaveDropsLateVerdict(t *testing.T) {
	e, mem := screentest.New(t)
	s := New(e, greetings(t, mem))
	feed(s, s.Init())

	_, verdict := s.Update(components.ChooseMsg{Index: 0})
	s.Leave()
	feed(s, verdict)
	if s.runner.Verdict() != nil {
		t.Error("verdict arriving after leave must be ignored")
	}
}
