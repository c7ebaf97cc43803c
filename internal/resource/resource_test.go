package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/progress"
)

func run[P comparable, T any](t *testing.T, cmd tea.Cmd) Result[P, T] {
	t.Helper()
	require.NotNil(t, cmd)
	res, ok := cmd().(Result[P, T])
	require.True(t, ok, "unexpected message type")
	return res
}

func counting(calls *int32, err error) Fetcher[string, string] {
	return func(_ context.Context, p string) (string, error) {
		atomic.AddInt32(calls, 1)
		if err != nil {
			return "", err
		}
		return "data:" + p, nil
	}
}

func TestRequestFetchesOncePerParam(t *testing.T) {
	var calls int32
	r := New("test", "Failed", counting(&calls, nil))

	cmd := r.Request("a", true)
	assert.True(t, r.Loading)
	assert.True(t, r.Apply(run[string, string](t, cmd)))
	assert.False(t, r.Loading)
	assert.Equal(t, "data:a", r.Data)

	assert.Nil(t, r.Request("a", true), "same parameter must not re-fetch")

	res := run[string, string](t, r.Request("b", true))
	r.Apply(res)
	assert.Equal(t, "data:b", r.Data)
	assert.EqualValues(t, 2, calls)
}

func TestFreshResourcesBothFetch(t *testing.T) {
	var calls int32
	f := counting(&calls, nil)

	r1 := New("test", "Failed", f)
	r2 := New("test", "Failed", f)
	r1.Apply(run[string, string](t, r1.Request("sw", true)))
	r2.Apply(run[string, string](t, r2.Request("sw", true)))

	assert.EqualValues(t, 2, calls)
	assert.Equal(t, r1.Data, r2.Data)
}

func TestUndefinedParamDoesNotFetch(t *testing.T) {
	var calls int32
	r := New("test", "Failed", counting(&calls, nil))

	assert.Nil(t, r.Request("", false))
	assert.False(t, r.Loading)
	assert.Empty(t, r.Data)
	assert.Zero(t, calls)

	r.Apply(run[string, string](t, r.Request("x", true)))
	assert.Equal(t, "data:x", r.Data)

	assert.Nil(t, r.Request("", false))
	assert.Empty(t, r.Data, "leaving the defined state clears the value")
	assert.Nil(t, r.Refresh())
}

func TestStaleResultIsDiscarded(t *testing.T) {
	var calls int32
	r := New("test", "Failed", counting(&calls, nil))

	first := r.Request("old", true)
	second := r.Request("new", true)

	newRes := run[string, string](t, second)
	oldRes := run[string, string](t, first)

	assert.True(t, r.Apply(newRes))
	assert.False(t, r.Apply(oldRes), "superseded response must not win")
	assert.Equal(t, "data:new", r.Data)
	assert.False(t, r.Loading)
}

func TestResultForOtherResourceIgnored(t *testing.T) {
	var calls int32
	r1 := New("test", "Failed", counting(&calls, nil))
	r2 := New("test", "Failed", counting(&calls, nil))

	res := run[string, string](t, r1.Request("a", true))
	r2.Request("a", true)
	assert.False(t, r2.Apply(res))
	assert.True(t, r2.Loading)
}

func TestErrorKeepsPreviousData(t *testing.T) {
	fail := false
	r := New[string, string]("test", "Failed to load things", func(_ context.Context, p string) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "ok:" + p, nil
	})

	r.Apply(run[string, string](t, r.Request("a", true)))
	require.Equal(t, "ok:a", r.Data)

	fail = true
	r.Apply(run[string, string](t, r.Refresh()))
	assert.Equal(t, "Failed to load things", r.Err)
	assert.Equal(t, "ok:a", r.Data)
	assert.False(t, r.Loading)

	fail = false
	r.Apply(run[string, string](t, r.Refresh()))
	assert.Empty(t, r.Err)
}

func TestConcreteResourcesAgainstMemory(t *testing.T) {
	mem := backend.NewMemory()

	lessons := NewLessons(mem)
	lessons.Apply(run[language.Code, []backend.Lesson](t, lessons.Request(language.Swahili, true)))
	require.Empty(t, lessons.Err)
	require.NotEmpty(t, lessons.Data)
	for i, l := range lessons.Data {
		assert.Equal(t, language.Swahili, l.LanguageCode)
		assert.True(t, l.IsActive)
		if i > 0 {
			assert.LessOrEqual(t, lessons.Data[i-1].OrderIndex, l.OrderIndex)
		}
	}

	questions := NewQuestions(mem)
	assert.Nil(t, questions.Request("", false))
	questions.Apply(run[string, []backend.Question](t, questions.Request(lessons.Data[0].ID, true)))
	assert.NotEmpty(t, questions.Data)

	board := NewLeaderboard(mem)
	board.Apply(run[int, []backend.LeaderboardEntry](t, board.Request(3, true)))
	assert.Len(t, board.Data, 3)
	assert.Equal(t, 1, board.Data[0].Rank)
}

func TestAchievementsJoinAndStats(t *testing.T) {
	mem := backend.NewMemory()
	ctx := context.Background()
	raw, err := mem.SignUp(ctx, "amani@example.com", "pole-pole", "Amani")
	require.NoError(t, err)
	mem.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: raw.AccessToken}))

	lessons, err := mem.Lessons(ctx, language.Swahili)
	require.NoError(t, err)
	_, err = mem.CompleteLesson(ctx, lessons[0].ID, 3, language.Swahili)
	require.NoError(t, err)

	ach := NewAchievements(mem)
	ach.Apply(run[string, []progress.AchievementStatus](t, ach.Request(raw.User.ID, true)))
	catalog, err := mem.Achievements(ctx)
	require.NoError(t, err)
	require.Len(t, ach.Data, len(catalog))
	earned := 0
	for _, a := range ach.Data {
		if a.Earned {
			earned++
		}
	}
	assert.Positive(t, earned)

	stats := NewStats(mem)
	assert.Nil(t, stats.Request("", false))
	stats.Apply(run[string, Stats](t, stats.Request(raw.User.ID, true)))
	require.Empty(t, stats.Err)
	assert.Equal(t, 1, stats.Data.LessonsCompleted)
	assert.Positive(t, stats.Data.TotalXP)
	assert.Equal(t, stats.Data.TotalXP, stats.Data.TodayXP)
	assert.Equal(t, stats.Data.TotalXP, stats.Data.WeeklyXP)
	assert.Len(t, stats.Data.Daily, HistoryDays)
}

func TestStatsFailureMessage(t *testing.T) {
	mem := backend.NewMemory()
	stats := NewStats(mem)
	stats.Apply(run[string, Stats](t, stats.Request("nobody", true)))
	assert.Equal(t, ErrStats, stats.Err)
}
