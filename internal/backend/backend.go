// Package backend talks to the hosted learning backend: table queries,
// remote procedures and password authentication. Scoring, streaks and
// ranking are computed server-side; this package only carries the
// requests and results.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

var (
	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the call needs a valid session.
	ErrUnauthorized = errors.New("unauthorized")
)

// Backend is the data surface the client depends on.
type Backend interface {
	// Lessons lists active lessons ordered by order_index. An empty code
	// lists every language.
	Lessons(ctx context.Context, code language.Code) ([]Lesson, error)

	// Questions returns the public questions of a lesson, ordered.
	Questions(ctx context.Context, lessonID string) ([]Question, error)

	// CheckAnswer asks the server to grade one selection.
	CheckAnswer(ctx context.Context, questionID string, selected int) (AnswerResult, error)

	// CompleteLesson records a finished lesson with the learner's score.
	CompleteLesson(ctx context.Context, lessonID string, score int, code language.Code) (CompletionResult, error)

	// Leaderboard returns at most limit ranked rows.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// Profile returns the profile row of userID, or ErrNotFound.
	Profile(ctx context.Context, userID string) (*ProfileRow, error)

	// UpsertProfile creates or merges the caller's profile row.
	UpsertProfile(ctx context.Context, row ProfileRow) error

	// Achievements returns the achievement catalog.
	Achievements(ctx context.Context) ([]Achievement, error)

	// EarnedAchievements returns the achievements userID has earned.
	EarnedAchievements(ctx context.Context, userID string) ([]EarnedAchievement, error)

	// CompletedLessons counts the lessons userID has completed.
	CompletedLessons(ctx context.Context, userID string) (int, error)

	// XPHistory returns the caller's XP per day for the last days days,
	// oldest first.
	XPHistory(ctx context.Context, days int) ([]DayXP, error)

	// SetTokenSource installs the source of the bearer token for
	// user-scoped calls. A nil source makes every call anonymous.
	SetTokenSource(ts oauth2.TokenSource)
}

// Authenticator issues and revokes sessions.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password, name string) (*AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Service is a Backend that can also authenticate.
type Service interface {
	Backend
	Authenticator
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend %d: %s", e.Status, msg)
}

// Unwrap maps well-known statuses onto the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}
