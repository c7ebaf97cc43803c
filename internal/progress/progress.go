// Package progress derives the learner-facing figures shown on the
// dashboard, progress and leaderboard screens from backend rows.
package progress

import (
	"strings"
	"time"
	"unicode"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
)

const (
	// XPPerLevel is the width of every level band.
	XPPerLevel = 500

	// DailyGoal and WeeklyGoal are the XP targets shown as rings.
	DailyGoal  = 50
	WeeklyGoal = 350
)

// Level returns floor(xp/500)+1. Negative XP counts as zero.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// LevelBounds returns the XP at which level starts and the XP at which
// the next level starts.
func LevelBounds(level int) (start, next int) {
	if level < 1 {
		level = 1
	}
	start = (level - 1) * XPPerLevel
	return start, start + XPPerLevel
}

// LevelProgress returns how far xp is through its level, in [0, 1).
func LevelProgress(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	start, _ := LevelBounds(Level(xp))
	return float64(xp-start) / XPPerLevel
}

// XPToNextLevel returns the XP still needed to reach the next level.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	_, next := LevelBounds(Level(xp))
	return next - xp
}

// GoalPercent returns value/goal clamped to [0, 1].
func GoalPercent(value, goal int) float64 {
	if goal <= 0 || value <= 0 {
		return 0
	}
	if value >= goal {
		return 1
	}
	return float64(value) / float64(goal)
}

// TodayXP returns the XP recorded for the day of now in history.
func TodayXP(history []backend.DayXP, now time.Time) int {
	today := now.Format(time.DateOnly)
	for _, d := range history {
		if d.Day == today {
			return d.XP
		}
	}
	return 0
}

// WeekXP sums the XP of the seven days ending on now.
func WeekXP(history []backend.DayXP, now time.Time) int {
	from := now.AddDate(0, 0, -6).Format(time.DateOnly)
	to := now.Format(time.DateOnly)
	total := 0
	for _, d := range history {
		if d.Day >= from && d.Day <= to {
			total += d.XP
		}
	}
	return total
}

// AchievementStatus is a catalog achievement joined with the learner's record.
type AchievementStatus struct {
	backend.Achievement
	Earned   bool
	EarnedAt time.Time
}

// MergeAchievements joins the catalog with the earned records. The result
// has one entry per catalog item in catalog order; earned records for
// unknown ids are ignored.
func MergeAchievements(catalog []backend.Achievement, earned []backend.EarnedAchievement) []AchievementStatus {
	at := make(map[string]time.Time, len(earned))
	for _, e := range earned {
		at[e.AchievementID] = e.EarnedAt
	}
	out := make([]AchievementStatus, len(catalog))
	for i, a := range catalog {
		t, ok := at[a.ID]
		out[i] = AchievementStatus{Achievement: a, Earned: ok, EarnedAt: t}
	}
	return out
}

// EarnedCount returns how many statuses are earned.
func EarnedCount(statuses []AchievementStatus) int {
	n := 0
	for _, s := range statuses {
		if s.Earned {
			n++
		}
	}
	return n
}

// FindSelf locates the learner's row by user id. The second result is
// false when the learner is not on the board or userID is empty.
func FindSelf(entries []backend.LeaderboardEntry, userID string) (backend.LeaderboardEntry, bool) {
	if userID == "" {
		return backend.LeaderboardEntry{}, false
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return backend.LeaderboardEntry{}, false
}

// Initials returns up to two upper-cased initials of name, e.g.
// "wanjiku kamau" -> "WK". Combining marks stay with their letter so
// "ĩ" survives as one initial.
func Initials(name string) string {
	words := strings.FieldsFunc(norm.NFC.String(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	var b strings.Builder
	for _, w := range words {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				break
			}
		}
		if b.Len() > 0 && len([]rune(b.String())) == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	// A Caser is not safe for concurrent use.
	return cases.Upper(xlang.Und).String(b.String())
}
