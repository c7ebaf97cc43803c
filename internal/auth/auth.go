// Package auth holds the signed-in identity and keeps its access token
// fresh.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

var (
	// ErrNoSession means there is no identity to act for.
	ErrNoSession = errors.New("no session")

	// ErrExpired means the session expired and cannot be refreshed.
	ErrExpired = errors.New("session expired")
)

// RefreshFailed classifies an error from Authenticator.Refresh. Only a
// rejected refresh token becomes ErrExpired; anything else, such as a
// dropped connection or a server error, is returned as a plain error so
// the caller keeps the session and tries again later.
func RefreshFailed(err error) error {
	var apiErr *backend.APIError
	if errors.Is(err, backend.ErrUnauthorized) ||
		(errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Code == "invalid_grant") {
		return fmt.Errorf("%w: %w", ErrExpired, err)
	}
	return fmt.Errorf("refresh session: %w", err)
}

// Session is a signed-in identity.
type Session struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	UserID       string
	Email        string
}

// Claims is the subset of access-token claims the client reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ParseClaims decodes the claims of an access token without verifying
// the signature. The server verifies every request; the client only
// needs the subject and expiry to decide what to show and when to refresh.
func ParseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	return claims, nil
}

// FromAuthSession converts a backend token bundle. Missing user fields
// are filled from the token claims.
func FromAuthSession(s *backend.AuthSession) (*Session, error) {
	if s == nil || s.AccessToken == "" {
		return nil, ErrNoSession
	}
	sess := &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Expiry:       s.Expiry(),
		UserID:       s.User.ID,
		Email:        s.User.Email,
	}
	if sess.UserID == "" || sess.Expiry.IsZero() {
		claims, err := ParseClaims(s.AccessToken)
		if err != nil {
			return nil, err
		}
		if sess.UserID == "" {
			sess.UserID = claims.Subject
		}
		if sess.Email == "" {
			sess.Email = claims.Email
		}
		if sess.Expiry.IsZero() && claims.ExpiresAt != nil {
			sess.Expiry = claims.ExpiresAt.Time
		}
	}
	if sess.UserID == "" {
		return nil, fmt.Errorf("access token has no subject: %w", ErrNoSession)
	}
	return sess, nil
}

// FromRecord restores a persisted session.
func FromRecord(rec *store.SessionRecord) *Session {
	if rec == nil {
		return nil
	}
	return &Session{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Expiry:       rec.Expiry,
		UserID:       rec.UserID,
		Email:        rec.Email,
	}
}

// Record returns the persisted form of s.
func (s *Session) Record() store.SessionRecord {
	return store.SessionRecord{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "bearer",
		Expiry:       s.Expiry,
		UserID:       s.UserID,
		Email:        s.Email,
	}
}

// Token returns s as an oauth2 token.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       s.Expiry,
	}
}

// Expired reports whether the access token is past its expiry at now.
// A session without expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Before(s.Expiry)
}
