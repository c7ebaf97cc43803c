package lesson

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/submit"
)

// keySubmitter answers from a fixed key: option 0 is always right.
type keySubmitter struct {
	answerFails     bool
	completionFails bool
	completions     int
	lastScore       int
}

func (k *keySubmitter) SubmitAnswer(_ context.Context, _ string, selected int) submit.AnswerOutcome {
	if k.answerFails {
		return submit.AnswerOutcome{}
	}
	return submit.AnswerOutcome{Success: true, IsCorrect: selected == 0, CorrectOptionIndex: 0, XPEarned: 5}
}

func (k *keySubmitter) SubmitLessonCompletion(_ context.Context, _ string, score int, _ language.Code) submit.CompletionOutcome {
	k.completions++
	k.lastScore = score
	if k.completionFails {
		return submit.CompletionOutcome{}
	}
	return submit.CompletionOutcome{Success: true, LessonXP: 20, TotalXPEarned: 20 + 5*score}
}

func questions(n int) []backend.Question {
	qs := make([]backend.Question, n)
	for i := range qs {
		qs[i] = backend.Question{ID: string(rune('a' + i)), Text: "?", Options: []string{"right", "wrong", "also wrong"}}
	}
	return qs
}

func exec[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(T)
	require.True(t, ok)
	return msg
}

func TestEarnedXP(t *testing.T) {
	assert.Equal(t, 10, EarnedXP(nil, 0))
	assert.Equal(t, 25, EarnedXP(nil, 3))
	assert.Equal(t, 25, EarnedXP(&backend.Lesson{XPReward: 0}, 3))
	assert.Equal(t, 35, EarnedXP(&backend.Lesson{XPReward: 20}, 3))
	assert.Equal(t, 30, EarnedXP(&backend.Lesson{XPReward: 30}, 0))
}

func TestHappyPathThreeOfThree(t *testing.T) {
	sub := &keySubmitter{}
	lesson := &backend.Lesson{ID: "sw-greetings", XPReward: 20, LanguageCode: language.Swahili}
	r := New(lesson.ID, lesson, "", sub)
	assert.Equal(t, language.Swahili, r.Language)
	assert.Equal(t, PhaseLoading, r.Phase())

	r.Load(questions(3), "")
	for i := 0; i < 3; i++ {
		require.Equal(t, PhasePresenting, r.Phase())
		require.Equal(t, i, r.Index())
		cmd := r.Select(0)
		require.Equal(t, PhaseFeedback, r.Phase(), "selection moves to feedback synchronously")
		assert.False(t, r.CanAdvance(), "forward waits for the verdict")
		assert.Equal(t, MarkPending, r.Mark(0))

		require.True(t, r.ApplyVerdict(exec[VerdictMsg](t, cmd)))
		assert.Equal(t, MarkCorrect, r.Mark(0))
		assert.True(t, r.CanAdvance())

		next := r.Next()
		if i < 2 {
			assert.Nil(t, next)
		} else {
			require.Equal(t, PhaseComplete, r.Phase())
			done := exec[CompletedMsg](t, next)
			assert.True(t, r.Owns(done))
			assert.True(t, done.Outcome.Success)
			assert.Equal(t, 35, done.EarnedXP)
			assert.Equal(t, "Lesson Complete! You earned 35 XP!", done.Toast())
		}
	}
	assert.Equal(t, 3, r.Score())
	assert.Equal(t, 3, r.Answered())
	assert.Equal(t, 1, sub.completions)
	assert.Equal(t, 3, sub.lastScore)
}

func TestTransitionsMatchQuestionCount(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		r := New("l", nil, language.Luo, &keySubmitter{})
		r.Load(questions(n), "")
		for r.Phase() != PhaseComplete {
			r.ApplyVerdict(exec[VerdictMsg](t, r.Select(1)))
			r.Next()
		}
		assert.Equal(t, n, r.Answered())
		assert.Zero(t, r.Score())
		assert.Equal(t, DefaultBaseXP, r.EarnedXP())
	}
}

func TestWrongAnswerMarks(t *testing.T) {
	r := New("l", nil, language.Kikuyu, &keySubmitter{})
	r.Load(questions(1), "")
	r.ApplyVerdict(exec[VerdictMsg](t, r.Select(2)))

	assert.Equal(t, MarkCorrect, r.Mark(0))
	assert.Equal(t, MarkNone, r.Mark(1))
	assert.Equal(t, MarkWrong, r.Mark(2))
	assert.Zero(t, r.Score())
}

func TestFailedCheckDoesNotScoreButAdvances(t *testing.T) {
	r := New("l", nil, language.Swahili, &keySubmitter{answerFails: true})
	r.Load(questions(1), "")
	r.ApplyVerdict(exec[VerdictMsg](t, r.Select(0)))

	assert.Equal(t, MarkUnknown, r.Mark(0))
	assert.True(t, r.CanAdvance())
	assert.Zero(t, r.Score())
}

func TestCompletionFailureToast(t *testing.T) {
	r := New("l", &backend.Lesson{XPReward: 20}, language.Swahili, &keySubmitter{completionFails: true})
	r.Load(questions(1), "")
	r.ApplyVerdict(exec[VerdictMsg](t, r.Select(0)))
	done := exec[CompletedMsg](t, r.Next())

	assert.False(t, done.Outcome.Success)
	assert.Equal(t, "Lesson Complete! Great job! Your progress will be saved shortly.", done.Toast())
}

func TestSelectIgnoredOutsidePresenting(t *testing.T) {
	r := New("l", nil, language.Swahili, &keySubmitter{})
	assert.Nil(t, r.Select(0), "still loading")

	r.Load(questions(2), "")
	assert.Nil(t, r.Select(7), "out of range")
	cmd := r.Select(1)
	require.NotNil(t, cmd)
	assert.Nil(t, r.Select(0), "options are disabled in feedback")
	assert.Equal(t, 1, r.Selected())
	assert.Nil(t, r.Next(), "no verdict yet")
}

func TestStaleAndForeignVerdictsIgnored(t *testing.T) {
	r1 := New("l", nil, language.Swahili, &keySubmitter{})
	r2 := New("l", nil, language.Swahili, &keySubmitter{})
	r1.Load(questions(2), "")
	r2.Load(questions(2), "")

	v1 := exec[VerdictMsg](t, r1.Select(0))
	r2.Select(0)
	assert.False(t, r2.ApplyVerdict(v1), "verdict of another runner")
	assert.True(t, r1.ApplyVerdict(v1))
	assert.False(t, r1.ApplyVerdict(v1), "duplicate verdict")
	assert.Equal(t, 1, r1.Score())
}

func TestAbandonIgnoresLateResults(t *testing.T) {
	r := New("l", nil, language.Swahili, &keySubmitter{})
	r.Load(questions(1), "")
	cmd := r.Select(0)
	r.Abandon()

	assert.False(t, r.ApplyVerdict(exec[VerdictMsg](t, cmd)))
	assert.Nil(t, r.Next())
	assert.Zero(t, r.Score())
	assert.True(t, r.Abandoned())
}

func TestEmptyAndFailedAreTerminal(t *testing.T) {
	empty := New("l", nil, language.Swahili, &keySubmitter{})
	empty.Load(nil, "")
	assert.Equal(t, PhaseEmpty, empty.Phase())
	assert.Nil(t, empty.Select(0))
	_, ok := empty.Current()
	assert.False(t, ok)

	failed := New("l", nil, language.Swahili, &keySubmitter{})
	failed.Load(questions(3), "Failed to load questions")
	assert.Equal(t, PhaseFailed, failed.Phase())
	assert.Equal(t, "Failed to load questions", failed.Err())

	failed.Reload()
	assert.Equal(t, PhaseLoading, failed.Phase())
	failed.Load(questions(3), "")
	assert.Equal(t, PhasePresenting, failed.Phase())
}
