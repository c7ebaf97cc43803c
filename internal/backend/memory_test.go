package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func signedIn(t *testing.T, m *Memory, email string) (*Memory, *AuthSession) {
	t.Helper()
	sess, err := m.SignUp(context.Background(), email, "secret123", "Wanjiru")
	require.NoError(t, err)
	return m.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.AccessToken})), sess
}

func TestMemoryLessonsFiltersAndOrders(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	all, err := m.Lessons(ctx, "")
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].OrderIndex, all[i].OrderIndex)
	}
	for _, l := range all {
		assert.True(t, l.IsActive, "inactive lesson %s listed", l.ID)
	}

	sw, err := m.Lessons(ctx, language.Swahili)
	require.NoError(t, err)
	require.Len(t, sw, 3)
	for _, l := range sw {
		assert.Equal(t, language.Swahili, l.LanguageCode)
	}
}

func TestMemoryQuestionsHideAnswerKey(t *testing.T) {
	m := NewMemory()
	qs, err := m.Questions(context.Background(), "sw-greetings")
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "sw-greetings-1", qs[0].ID)

	none, err := m.Questions(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryCheckAnswer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	right, err := m.CheckAnswer(ctx, "sw-greetings-1", 0)
	require.NoError(t, err)
	assert.True(t, right.IsCorrect)
	assert.Equal(t, 5, right.XPEarned)

	wrong, err := m.CheckAnswer(ctx, "sw-greetings-1", 3)
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 0, wrong.CorrectOptionIndex)
	assert.Zero(t, wrong.XPEarned)
	assert.NotEmpty(t, wrong.Explanation)

	_, err = m.CheckAnswer(ctx, "nope", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCompleteLessonRequiresSession(t *testing.T) {
	m := NewMemory()
	_, err := m.CompleteLesson(context.Background(), "sw-greetings", 3, language.Swahili)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMemoryCompleteLessonAwardsXPAndStreak(t *testing.T) {
	clock := &fixedClock{t: time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.now))
	user, sess := signedIn(t, m, "wanjiru@example.com")
	ctx := context.Background()

	res, err := user.CompleteLesson(ctx, "sw-greetings", 3, language.Swahili)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 20, res.LessonXP)
	assert.Equal(t, 35, res.TotalXPEarned)

	// The first access token is long expired a day later.
	clock.t = clock.t.AddDate(0, 0, 1)
	_, err = user.CompleteLesson(ctx, "sw-numbers", 1, language.Swahili)
	require.ErrorIs(t, err, ErrUnauthorized)

	next, err := m.SignIn(ctx, "wanjiru@example.com", "secret123")
	require.NoError(t, err)
	user = m.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: next.AccessToken}))
	_, err = user.CompleteLesson(ctx, "sw-numbers", 1, language.Swahili)
	require.NoError(t, err)

	p, err := m.Profile(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 35+25, p.TotalXP)
	assert.Equal(t, 2, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak)

	n, err := m.CompletedLessons(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	earned, err := m.EarnedAchievements(ctx, sess.User.ID)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, e := range earned {
		ids[e.AchievementID] = true
	}
	assert.True(t, ids[AchievementFirstLesson])
	assert.True(t, ids[AchievementPerfect])
	assert.False(t, ids[AchievementStreak3])

	hist, err := user.XPHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, hist, 7)
	assert.Equal(t, "2026-10-13", hist[6].Day)
	assert.Equal(t, 25, hist[6].XP)
	assert.Equal(t, 35, hist[5].XP)
	assert.Zero(t, hist[0].XP)
}

func TestMemoryCompleteLessonRejectsMismatchedLanguage(t *testing.T) {
	m := NewMemory()
	user, _ := signedIn(t, m, "otieno@example.com")
	_, err := user.CompleteLesson(context.Background(), "sw-greetings", 1, language.Luo)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
}

func TestMemoryLeaderboardRanksWithUserIDs(t *testing.T) {
	m := NewMemory()
	rows, err := m.Leaderboard(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "seed-amani", rows[0].UserID)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
		assert.NotEmpty(t, r.UserID)
	}
}

func TestMemoryProfileNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpsertProfileMerges(t *testing.T) {
	m := NewMemory()
	user, sess := signedIn(t, m, "kamau@example.com")
	ctx := context.Background()

	require.NoError(t, user.UpsertProfile(ctx, ProfileRow{Age: 24, SelectedLanguage: language.Kikuyu}))
	p, err := m.Profile(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wanjiru", p.Name)
	assert.Equal(t, 24, p.Age)
	assert.Equal(t, language.Kikuyu, p.SelectedLanguage)

	err = user.UpsertProfile(ctx, ProfileRow{UserID: "someone-else", Name: "X"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMemoryAuthLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.SignIn(ctx, "nobody@example.com", "x")
	require.Error(t, err)

	_, err = m.SignUp(ctx, "achieng@example.com", "pw", "Achieng")
	require.Error(t, err, "short password should be rejected")

	first, err := m.SignUp(ctx, "achieng@example.com", "secret123", "Achieng")
	require.NoError(t, err)
	_, err = m.SignUp(ctx, "achieng@example.com", "secret123", "Achieng")
	require.Error(t, err, "duplicate sign-up should fail")

	again, err := m.SignIn(ctx, "ACHIENG@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	refreshed, err := m.Refresh(ctx, again.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, again.AccessToken, refreshed.AccessToken)
	_, err = m.Refresh(ctx, again.RefreshToken)
	assert.Error(t, err, "refresh tokens are single use")

	require.NoError(t, m.SignOut(ctx, refreshed.AccessToken))
	user := m.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: refreshed.AccessToken}))
	_, err = user.XPHistory(ctx, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
