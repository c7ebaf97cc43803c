package backend

import (
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// Lesson is an active lesson row, ordered by OrderIndex.
type Lesson struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	LanguageCode    language.Code `json:"language_code"`
	Level           int           `json:"level"`
	OrderIndex      int           `json:"order_index"`
	XPReward        int           `json:"xp_reward"`
	IsActive        bool          `json:"is_active"`
	LessonType      string        `json:"lesson_type"`
	CulturalContext string        `json:"cultural_context,omitempty"`
}

// Question is the public shape of a lesson question. It never carries the
// correct option or the explanation; those only come back from CheckAnswer.
type Question struct {
	ID              string   `json:"id"`
	LessonID        string   `json:"lesson_id"`
	Text            string   `json:"question_text"`
	Options         []string `json:"options"`
	OrderIndex      int      `json:"order_index"`
	AudioURL        string   `json:"audio_url,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	ProverbText     string   `json:"proverb_text,omitempty"`
	CulturalMeaning string   `json:"cultural_meaning,omitempty"`
	LanguageOrigin  string   `json:"language_origin,omitempty"`
}

// AnswerResult is the server's verdict on one selected option.
type AnswerResult struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectOptionIndex int    `json:"correct_answer"`
	Explanation        string `json:"explanation"`
	XPEarned           int    `json:"xp_earned"`
}

// CompletionResult is returned by CompleteLesson.
type CompletionResult struct {
	Success       bool `json:"success"`
	LessonXP      int  `json:"lesson_xp"`
	TotalXPEarned int  `json:"total_xp_earned"`
}

// LeaderboardEntry is one row of the public leaderboard. Rows arrive
// sorted by rank.
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	TotalXP       int    `json:"total_xp"`
	CurrentStreak int    `json:"current_streak"`
	Rank          int    `json:"rank"`
}

// ProfileRow mirrors the profiles table.
type ProfileRow struct {
	ID               string        `json:"id,omitempty"`
	UserID           string        `json:"user_id"`
	Name             string        `json:"name"`
	Age              int           `json:"age,omitempty"`
	Email            string        `json:"email,omitempty"`
	SelectedLanguage language.Code `json:"selected_language,omitempty"`
	NativeLanguage   string        `json:"native_language,omitempty"`
	TotalXP          int           `json:"total_xp"`
	CurrentStreak    int           `json:"current_streak"`
	LongestStreak    int           `json:"longest_streak"`
	LastActivityDate string        `json:"last_activity_date,omitempty"`
}

// Achievement is a catalog entry.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	XPReward    int    `json:"xp_reward"`
}

// EarnedAchievement links a user to an achievement.
type EarnedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// DayXP is the XP earned on one calendar day (YYYY-MM-DD, server time zone).
type DayXP struct {
	Day string `json:"day"`
	XP  int    `json:"xp"`
}

// AuthUser is the identity half of an AuthSession.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is the token bundle returned by sign-in, sign-up and refresh.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// Expiry returns the absolute expiry time of the access token.
func (s AuthSession) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if s.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return time.Time{}
}
