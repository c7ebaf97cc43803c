// Package lesson drives one pass through a lesson's questions: present a
// question, collect the learner's choice, show the server's verdict and
// finally record the completion.
package lesson

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/submit"
)

const (
	// DefaultBaseXP is the completion reward when the lesson has none.
	DefaultBaseXP = 10
	// XPPerCorrect is added to the base for every correct answer.
	XPPerCorrect = 5

	defaultTimeout = 15 * time.Second
)

// EarnedXP returns the XP shown for finishing a lesson with score
// correct answers. A nil lesson or a zero reward uses DefaultBaseXP.
func EarnedXP(l *backend.Lesson, score int) int {
	base := DefaultBaseXP
	if l != nil && l.XPReward > 0 {
		base = l.XPReward
	}
	return base + XPPerCorrect*score
}

// Phase is the runner state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhasePresenting
	PhaseFeedback
	PhaseComplete
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePresenting:
		return "presenting"
	case PhaseFeedback:
		return "feedback"
	case PhaseComplete:
		return "complete"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Submitter is what the runner needs from the submission unit.
type Submitter interface {
	SubmitAnswer(ctx context.Context, questionID string, selected int) submit.AnswerOutcome
	SubmitLessonCompletion(ctx context.Context, lessonID string, score int, code language.Code) submit.CompletionOutcome
}

// VerdictMsg carries the checked answer for one question.
type VerdictMsg struct {
	owner   *Runner
	index   int
	Outcome submit.AnswerOutcome
}

// CompletedMsg carries the recorded completion.
type CompletedMsg struct {
	owner    *Runner
	Outcome  submit.CompletionOutcome
	EarnedXP int
}

// Toast is the message shown on the dashboard after the lesson.
func (m CompletedMsg) Toast() string {
	if m.Outcome.Success {
		return fmt.Sprintf("Lesson Complete! You earned %d XP!", m.EarnedXP)
	}
	return "Lesson Complete! Great job! Your progress will be saved shortly."
}

// Mark is how an option is drawn in feedback.
type Mark int

const (
	MarkNone Mark = iota
	// MarkPending is the chosen option while the verdict is outstanding.
	MarkPending
	MarkCorrect
	MarkWrong
	// MarkUnknown is the chosen option when the check failed.
	MarkUnknown
)

// Runner is the lesson state machine. It is driven from one screen's
// Update and is not safe for concurrent use.
type Runner struct {
	LessonID string
	Lesson   *backend.Lesson
	Language language.Code
	Timeout  time.Duration

	sub       Submitter
	questions []backend.Question
	phase     Phase
	index     int
	selected  int
	verdict   *submit.AnswerOutcome
	score     int
	answered  int
	err       string
	abandoned bool
}

// New creates a runner in the loading phase. lesson may be nil when only
// the id is known; code then defaults from the lesson when set.
func New(lessonID string, lesson *backend.Lesson, code language.Code, sub Submitter) *Runner {
	if code == "" && lesson != nil {
		code = lesson.LanguageCode
	}
	return &Runner{
		LessonID: lessonID,
		Lesson:   lesson,
		Language: code,
		Timeout:  defaultTimeout,
		sub:      sub,
		phase:    PhaseLoading,
		selected: -1,
	}
}

// Load finishes the loading phase. A non-empty errText fails the run;
// zero questions ends it as empty.
func (r *Runner) Load(questions []backend.Question, errText string) {
	if r.phase != PhaseLoading {
		return
	}
	switch {
	case errText != "":
		r.phase = PhaseFailed
		r.err = errText
	case len(questions) == 0:
		r.phase = PhaseEmpty
	default:
		r.questions = questions
		r.phase = PhasePresenting
		r.index = 0
	}
}

// Reload returns a failed runner to the loading phase.
func (r *Runner) Reload() {
	if r.phase == PhaseFailed {
		r.phase = PhaseLoading
		r.err = ""
	}
}

// Select chooses option i of the current question and moves to feedback
// with the verdict pending. It returns the submission command, or nil
// when the selection is not allowed.
func (r *Runner) Select(i int) tea.Cmd {
	if r.abandoned || r.phase != PhasePresenting {
		return nil
	}
	q := r.questions[r.index]
	if i < 0 || i >= len(q.Options) {
		return nil
	}
	r.phase = PhaseFeedback
	r.selected = i
	r.verdict = nil
	r.answered++

	sub, timeout, index, qid := r.sub, r.Timeout, r.index, q.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return VerdictMsg{owner: r, index: index, Outcome: sub.SubmitAnswer(ctx, qid, i)}
	}
}

// ApplyVerdict records a verdict. It reports false for verdicts of
// another runner, an abandoned runner or a question no longer shown.
func (r *Runner) ApplyVerdict(msg VerdictMsg) bool {
	if msg.owner != r || r.abandoned || r.phase != PhaseFeedback || msg.index != r.index || r.verdict != nil {
		return false
	}
	out := msg.Outcome
	r.verdict = &out
	if out.Success && out.IsCorrect {
		r.score++
	}
	return true
}

// CanAdvance reports whether the forward action is accepted.
func (r *Runner) CanAdvance() bool {
	return !r.abandoned && r.phase == PhaseFeedback && r.verdict != nil
}

// Next leaves feedback. On the last question the runner completes and
// the completion command is returned.
func (r *Runner) Next() tea.Cmd {
	if !r.CanAdvance() {
		return nil
	}
	if r.index+1 < len(r.questions) {
		r.index++
		r.phase = PhasePresenting
		r.selected = -1
		r.verdict = nil
		return nil
	}

	r.phase = PhaseComplete
	sub, timeout := r.sub, r.Timeout
	id, score, code, earned := r.LessonID, r.score, r.Language, r.EarnedXP()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return CompletedMsg{owner: r, Outcome: sub.SubmitLessonCompletion(ctx, id, score, code), EarnedXP: earned}
	}
}

// Owns reports whether msg was produced by this runner and should still
// be acted on.
func (r *Runner) Owns(msg CompletedMsg) bool {
	return msg.owner == r && !r.abandoned
}

// Abandon stops the runner. Results arriving afterwards are ignored.
func (r *Runner) Abandon() { r.abandoned = true }

// Abandoned reports whether Abandon was called.
func (r *Runner) Abandoned() bool { return r.abandoned }

// Phase returns the current phase.
func (r *Runner) Phase() Phase { return r.phase }

// Err returns the load failure message.
func (r *Runner) Err() string { return r.err }

// Index returns the zero-based position of the current question.
func (r *Runner) Index() int { return r.index }

// Total returns the number of questions.
func (r *Runner) Total() int { return len(r.questions) }

// Score returns the number of answers the server judged correct.
func (r *Runner) Score() int { return r.score }

// Answered returns how many questions moved from presenting to feedback.
func (r *Runner) Answered() int { return r.answered }

// EarnedXP returns the completion XP for the current score.
func (r *Runner) EarnedXP() int { return EarnedXP(r.Lesson, r.score) }

// Current returns the question being shown.
func (r *Runner) Current() (backend.Question, bool) {
	if r.phase != PhasePresenting && r.phase != PhaseFeedback {
		return backend.Question{}, false
	}
	return r.questions[r.index], true
}

// Selected returns the chosen option in feedback, or -1.
func (r *Runner) Selected() int { return r.selected }

// Verdict returns the outcome for the current question; nil while
// pending.
func (r *Runner) Verdict() *submit.AnswerOutcome { return r.verdict }

// Mark returns how option i should be drawn.
func (r *Runner) Mark(i int) Mark {
	if r.phase != PhaseFeedback {
		return MarkNone
	}
	v := r.verdict
	switch {
	case v == nil:
		if i == r.selected {
			return MarkPending
		}
	case !v.Success:
		if i == r.selected {
			return MarkUnknown
		}
	case i == v.CorrectOptionIndex:
		return MarkCorrect
	case i == r.selected:
		return MarkWrong
	}
	return MarkNone
}
