// Package lesson is the question-by-question lesson player.
package lesson

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	lsn "github.com/eltonarunga/lugha-learner-kenya/internal/lesson"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
)

// Screen plays one lesson.
type Screen struct {
	env         *env.Env
	runner      *lsn.Runner
	questions   *resource.Questions
	choice      components.MultiChoice
	quitConfirm bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Leaver          = (*Screen)(nil)
	_ screen.EscHandler      = (*Screen)(nil)
)

// New creates a player for l in the learner's current language.
func New(e *env.Env, l backend.Lesson) *Screen {
	code := e.Language()
	if code == "" {
		code = l.LanguageCode
	}
	r := lsn.New(l.ID, &l, code, e.Submitter)
	r.Timeout = e.Timeout()
	return &Screen{
		env:       e,
		runner:    r,
		questions: resource.NewQuestions(e.Backend, e.ResourceOptions()...),
	}
}

// Runner exposes the state machine.
func (s *Screen) Runner() *lsn.Runner { return s.runner }

func (s *Screen) Init() tea.Cmd {
	return s.questions.Request(s.runner.LessonID, s.runner.LessonID != "")
}

func (s *Screen) Title() string {
	if s.runner.Lesson != nil && s.runner.Lesson.Title != "" {
		return s.runner.Lesson.Title
	}
	return "Lesson"
}

func (s *Screen) Leave() { s.runner.Abandon() }

func (s *Screen) HandlesEsc() bool { return true }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return layout.Hints("Y", "Leave lesson", "N", "Keep going")
	}
	switch s.runner.Phase() {
	case lsn.PhasePresenting:
		return layout.Hints("↑↓", "Choose", "1-4", "Answer", "Enter", "Submit", "Esc", "Quit")
	case lsn.PhaseFeedback:
		if s.runner.CanAdvance() {
			return layout.Hints("Enter", "Continue", "Esc", "Quit")
		}
		return layout.Hints("Esc", "Quit")
	case lsn.PhaseFailed:
		return layout.Hints("R", "Retry", "Esc", "Back")
	case lsn.PhaseComplete:
		return nil
	}
	return layout.Hints("Esc", "Back")
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resource.Result[string, []backend.Question]:
		if s.questions.Apply(msg) && !s.questions.Loading {
			s.runner.Load(s.questions.Data, s.questions.Err)
			s.resetChoice()
		}
		return s, nil

	case lsn.VerdictMsg:
		if s.runner.ApplyVerdict(msg) {
			s.syncMarks()
		}
		return s, nil

	case lsn.CompletedMsg:
		if !s.runner.Owns(msg) {
			return s, nil
		}
		s.env.Log().Info("lesson finished",
			"lesson_id", s.runner.LessonID, "score", s.runner.Score(),
			"total", s.runner.Total(), "recorded", msg.Outcome.Success)
		return s, tea.Batch(
			screen.Toast(msg.Toast()),
			screen.StatsChanged(),
			router.Pop(),
		)

	case components.ChooseMsg:
		cmd := s.runner.Select(msg.Index)
		if cmd != nil {
			s.choice.Locked = true
			s.syncMarks()
		}
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, router.Pop()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	switch s.runner.Phase() {
	case lsn.PhasePresenting:
		if key == "esc" {
			s.quitConfirm = true
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd

	case lsn.PhaseFeedback:
		switch key {
		case "esc":
			s.quitConfirm = true
		case "enter", "space", "right", "l":
			cmd := s.runner.Next()
			if s.runner.Phase() == lsn.PhasePresenting {
				s.resetChoice()
			}
			return s, cmd
		}
		return s, nil

	case lsn.PhaseFailed:
		switch key {
		case "r", "R":
			s.runner.Reload()
			return s, s.questions.Refresh()
		case "esc":
			return s, router.Pop()
		}
		return s, nil

	case lsn.PhaseComplete:
		// Waiting for the completion to be recorded.
		return s, nil
	}

	if key == "esc" {
		return s, router.Pop()
	}
	return s, nil
}

func (s *Screen) resetChoice() {
	q, ok := s.runner.Current()
	if !ok {
		s.choice = components.MultiChoice{}
		return
	}
	s.choice = components.NewMultiChoice(q.Text, q.Options)
}

func (s *Screen) syncMarks() {
	for i := range s.choice.Marks {
		s.choice.Marks[i] = toMark(s.runner.Mark(i))
	}
}

func toMark(m lsn.Mark) components.Mark {
	switch m {
	case lsn.MarkPending:
		return components.MarkPending
	case lsn.MarkCorrect:
		return components.MarkCorrect
	case lsn.MarkWrong:
		return components.MarkWrong
	case lsn.MarkUnknown:
		return components.MarkUnknown
	}
	return components.MarkNone
}

func (s *Screen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width, height)
	}
	switch s.runner.Phase() {
	case lsn.PhaseLoading:
		return components.LoadingView(width, height, "Loading questions...")
	case lsn.PhaseFailed:
		return components.ErrorView(width, height, s.runner.Err(), "Press R to retry or Esc to go back.")
	case lsn.PhaseEmpty:
		return components.EmptyView(width, height, "This lesson has no questions yet.", "Press Esc to go back.")
	case lsn.PhaseComplete:
		return s.renderComplete(width, height)
	}
	return s.renderQuestion(width, height)
}
