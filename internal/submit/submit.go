// Package submit sends answer checks and lesson completions to the
// backend. Failures are absorbed into outcomes; the real error goes to
// the log and the local event log.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

// User-facing failure messages.
const (
	ErrAnswer     = "Failed to submit answer"
	ErrCompletion = "Failed to save progress"
)

// AnswerOutcome is the result of checking one answer. A failed call has
// Success false and IsCorrect false.
type AnswerOutcome struct {
	Success            bool
	IsCorrect          bool
	CorrectOptionIndex int
	Explanation        string
	XPEarned           int
}

// CompletionOutcome is the result of recording a finished lesson.
type CompletionOutcome struct {
	Success       bool
	LessonXP      int
	TotalXPEarned int
}

var errNotRecorded = errors.New("backend reported completion not recorded")

// Option customizes a Submitter.
type Option func(*Submitter)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Submitter) { s.logger = l }
}

// WithUser sets the function reporting who is submitting, used only for
// event records.
func WithUser(userID func() string) Option {
	return func(s *Submitter) { s.userID = userID }
}

// Submitter performs submissions. It never touches the session store or
// any cached resource. Safe for concurrent use.
type Submitter struct {
	backend backend.Backend
	events  store.EventRepo
	logger  *slog.Logger
	userID  func() string

	inflight atomic.Int32

	mu  sync.Mutex
	err string
}

// New creates a Submitter. events may be nil.
func New(b backend.Backend, events store.EventRepo, opts ...Option) *Submitter {
	s := &Submitter{
		backend: b,
		events:  events,
		logger:  slog.Default(),
		userID:  func() string { return "" },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submitting reports whether any call is in flight.
func (s *Submitter) Submitting() bool { return s.inflight.Load() > 0 }

// Err returns the message of the last failed call, or "".
func (s *Submitter) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submitter) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// SubmitAnswer checks the selected option of a question.
func (s *Submitter) SubmitAnswer(ctx context.Context, questionID string, selected int) AnswerOutcome {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)
	s.setErr("")

	res, err := s.backend.CheckAnswer(ctx, questionID, selected)
	ev := store.SubmissionEventData{
		Kind:          store.KindAnswer,
		UserID:        s.userID(),
		QuestionID:    questionID,
		SelectedIndex: selected,
	}
	if err != nil {
		s.logger.Error("check answer", "question_id", questionID, "err", err)
		s.setErr(ErrAnswer)
		ev.ErrorMessage = err.Error()
		s.record(ctx, ev)
		return AnswerOutcome{}
	}

	ev.Success = true
	ev.Correct = res.IsCorrect
	ev.XP = res.XPEarned
	s.record(ctx, ev)
	return AnswerOutcome{
		Success:            true,
		IsCorrect:          res.IsCorrect,
		CorrectOptionIndex: res.CorrectOptionIndex,
		Explanation:        res.Explanation,
		XPEarned:           res.XPEarned,
	}
}

// SubmitLessonCompletion records a finished lesson with its score.
func (s *Submitter) SubmitLessonCompletion(ctx context.Context, lessonID string, score int, code language.Code) CompletionOutcome {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)
	s.setErr("")

	ev := store.SubmissionEventData{
		Kind:         store.KindCompletion,
		UserID:       s.userID(),
		LessonID:     lessonID,
		Score:        score,
		LanguageCode: string(code),
	}
	res, err := s.backend.CompleteLesson(ctx, lessonID, score, code)
	if err == nil && !res.Success {
		err = errNotRecorded
	}
	if err != nil {
		s.logger.Error("complete lesson", "lesson_id", lessonID, "score", score, "err", err)
		s.setErr(ErrCompletion)
		ev.ErrorMessage = err.Error()
		s.record(ctx, ev)
		return CompletionOutcome{}
	}

	ev.Success = true
	ev.XP = res.TotalXPEarned
	s.record(ctx, ev)
	return CompletionOutcome{Success: true, LessonXP: res.LessonXP, TotalXPEarned: res.TotalXPEarned}
}

func (s *Submitter) record(ctx context.Context, ev store.SubmissionEventData) {
	if s.events == nil {
		return
	}
	// Record even when the call timed out.
	if err := s.events.AppendSubmission(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn("record submission", "kind", ev.Kind, "err", err)
	}
}

