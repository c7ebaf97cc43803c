package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
)

// EarlyExpiry is how long before expiry a token is treated as stale.
const EarlyExpiry = time.Minute

// refresher trades the refresh token for a new session whenever the
// reuse layer above it finds the cached token stale.
type refresher struct {
	ctx       context.Context
	authn     backend.Authenticator
	onRefresh func(*Session)

	mu      sync.Mutex
	current *Session
}

func (r *refresher) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil || r.current.RefreshToken == "" {
		return nil, ErrExpired
	}
	raw, err := r.authn.Refresh(r.ctx, r.current.RefreshToken)
	if err != nil {
		return nil, RefreshFailed(err)
	}
	next, err := FromAuthSession(raw)
	if err != nil {
		return nil, err
	}
	r.current = next
	if r.onRefresh != nil {
		r.onRefresh(next)
	}
	return next.Token(), nil
}

// NewTokenSource returns a TokenSource that serves sess until it is
// within EarlyExpiry of expiring and then refreshes it through authn.
// onRefresh is called with every new session, under the source's lock.
func NewTokenSource(ctx context.Context, authn backend.Authenticator, sess *Session, onRefresh func(*Session)) oauth2.TokenSource {
	r := &refresher{ctx: ctx, authn: authn, onRefresh: onRefresh, current: sess}
	return oauth2.ReuseTokenSourceWithExpiry(sess.Token(), r, EarlyExpiry)
}
