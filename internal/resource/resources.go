package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/progress"
)

// Error messages shown for failed fetches.
const (
	ErrLessons      = "Failed to load lessons"
	ErrQuestions    = "Failed to load questions"
	ErrLeaderboard  = "Failed to load leaderboard"
	ErrAchievements = "Failed to load achievements"
	ErrStats        = "Failed to load user stats"
)

// HistoryDays is how much XP history the stats resource requests.
const HistoryDays = 7

// Lessons fetches active lessons for a language; "" fetches all.
type Lessons = Resource[language.Code, []backend.Lesson]

// NewLessons creates a lessons resource. The language is optional, so
// every request is defined.
func NewLessons(b backend.Backend, opts ...Option) *Lessons {
	return New[language.Code, []backend.Lesson]("lessons", ErrLessons, b.Lessons, opts...)
}

// Questions fetches the public questions of a lesson.
type Questions = Resource[string, []backend.Question]

// NewQuestions creates a questions resource. Request it with
// defined = lessonID != "".
func NewQuestions(b backend.Backend, opts ...Option) *Questions {
	return New[string, []backend.Question]("questions", ErrQuestions, b.Questions, opts...)
}

// Leaderboard fetches the top entries, keyed by limit.
type Leaderboard = Resource[int, []backend.LeaderboardEntry]

// NewLeaderboard creates a leaderboard resource.
func NewLeaderboard(b backend.Backend, opts ...Option) *Leaderboard {
	return New[int, []backend.LeaderboardEntry]("leaderboard", ErrLeaderboard, b.Leaderboard, opts...)
}

// Achievements fetches the catalog joined with a user's earned records,
// keyed by user id. An empty id joins against no records.
type Achievements = Resource[string, []progress.AchievementStatus]

// NewAchievements creates an achievements resource.
func NewAchievements(b backend.Backend, opts ...Option) *Achievements {
	return New[string, []progress.AchievementStatus]("achievements", ErrAchievements, func(ctx context.Context, userID string) ([]progress.AchievementStatus, error) {
		catalog, err := b.Achievements(ctx)
		if err != nil {
			return nil, err
		}
		var earned []backend.EarnedAchievement
		if userID != "" {
			earned, err = b.EarnedAchievements(ctx, userID)
			if err != nil {
				return nil, err
			}
		}
		return progress.MergeAchievements(catalog, earned), nil
	}, opts...)
}

// Stats is the learner's aggregate statistics.
type Stats struct {
	TotalXP          int
	CurrentStreak    int
	LongestStreak    int
	Level            int
	TodayXP          int
	WeeklyXP         int
	LessonsCompleted int
	Daily            []backend.DayXP
}

// StatsResource fetches Stats keyed by user id.
type StatsResource = Resource[string, Stats]

// NewStats creates a stats resource. Request it with defined = userID != "".
func NewStats(b backend.Backend, opts ...Option) *StatsResource {
	return New[string, Stats]("stats", ErrStats, func(ctx context.Context, userID string) (Stats, error) {
		return FetchStats(ctx, b, userID, time.Now())
	}, opts...)
}

// FetchStats assembles Stats from the profile row, the completed lesson
// count and the XP history.
func FetchStats(ctx context.Context, b backend.Backend, userID string, now time.Time) (Stats, error) {
	row, err := b.Profile(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("profile: %w", err)
	}
	done, err := b.CompletedLessons(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("completed lessons: %w", err)
	}
	history, err := b.XPHistory(ctx, HistoryDays)
	if err != nil {
		return Stats{}, fmt.Errorf("xp history: %w", err)
	}
	return Stats{
		TotalXP:          row.TotalXP,
		CurrentStreak:    row.CurrentStreak,
		LongestStreak:    row.LongestStreak,
		Level:            progress.Level(row.TotalXP),
		TodayXP:          progress.TodayXP(history, now),
		WeeklyXP:         progress.WeekXP(history, now),
		LessonsCompleted: done,
		Daily:            history,
	}, nil
}
