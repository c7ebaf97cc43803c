package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, rec SessionRecord) error {
	if rec.AccessToken == "" || rec.UserID == "" {
		return errors.New("session record needs an access token and a user id")
	}
	var expires int64
	if !rec.Expiry.IsZero() {
		expires = rec.Expiry.Unix()
	}
	tokenType := rec.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO auth_sessions
		(id, access_token, refresh_token, token_type, expires_at, user_id, email, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expires_at = excluded.expires_at,
			user_id = excluded.user_id,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		rec.AccessToken, rec.RefreshToken, tokenType, expires, rec.UserID, rec.Email, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*SessionRecord, error) {
	var rec SessionRecord
	var expires int64
	err := r.db.QueryRowContext(ctx, `SELECT access_token, refresh_token, token_type,
		expires_at, user_id, email FROM auth_sessions WHERE id = 1`,
	).Scan(&rec.AccessToken, &rec.RefreshToken, &rec.TokenType, &expires, &rec.UserID, &rec.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if expires > 0 {
		rec.Expiry = time.Unix(expires, 0)
	}
	return &rec, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
