// Package session owns the signed-in identity and the cached learner
// profile. Screens read immutable snapshots; every change replaces the
// whole state and is broadcast to subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/auth"
	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

// Event names the change a Snapshot was published for.
type Event string

const (
	EventInitialized    Event = "initialized"
	EventSignedIn       Event = "signed_in"
	EventSignedOut      Event = "signed_out"
	EventTokenRefreshed Event = "token_refreshed"
	EventProfileChanged Event = "profile_changed"
)

// DefaultRefreshInterval is how often the refresh job checks the token.
const DefaultRefreshInterval = time.Minute

// Snapshot is a point-in-time view of the store. Its pointers are never
// mutated after publication.
type Snapshot struct {
	Event   Event
	Loading bool
	Session *auth.Session
	Profile *Profile
}

// Authenticated reports whether a remote identity is present.
func (s Snapshot) Authenticated() bool { return s.Session != nil }

// UserID returns the signed-in user's id, or "".
func (s Snapshot) UserID() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.UserID
}

// Route applies the navigation guard: no identity and no guest profile
// goes to entry, an incomplete profile goes to onboarding.
func (s Snapshot) Route() Route {
	guest := s.Profile != nil && s.Profile.IsGuest
	if s.Session == nil && !guest {
		return RouteEntry
	}
	if !s.Profile.IsComplete() {
		return RouteOnboarding
	}
	return RouteOpen
}

// NeedsOnboarding reports whether the guard would send the learner to
// onboarding.
func (s Snapshot) NeedsOnboarding() bool { return s.Route() == RouteOnboarding }

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRefreshInterval sets the token refresh job period.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

// Store is the session store.
type Store struct {
	repo     store.SessionRepo
	svc      backend.Service
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration

	mu      sync.Mutex
	loading bool
	sess    *auth.Session
	profile *Profile
	tokens  oauth2.TokenSource
	subs    []chan Snapshot
	sched   gocron.Scheduler
	closed  bool
}

// New creates a Store. It starts in the loading state until Initialize
// returns.
func New(repo store.SessionRepo, svc backend.Service, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		svc:      svc,
		logger:   slog.Default(),
		now:      time.Now,
		interval: DefaultRefreshInterval,
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize resolves the persisted identity, refreshing it when it has
// expired, and fetches its profile. A missing or failed profile yields
// an empty one so the learner lands in onboarding rather than an error.
func (s *Store) Initialize(ctx context.Context) {
	defer s.finishLoading()

	rec, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("load persisted session", "err", err)
		return
	}
	sess := auth.FromRecord(rec)
	if sess == nil {
		return
	}
	if sess.Expired(s.now()) {
		next, err := s.refresh(ctx, sess)
		switch {
		case errors.Is(err, auth.ErrExpired):
			s.logger.Info("persisted session expired", "err", err)
			if err := s.repo.Clear(ctx); err != nil {
				s.logger.Warn("clear persisted session", "err", err)
			}
			return
		case err != nil:
			// Keep the stale session; the refresh job retries it.
			s.logger.Warn("refresh persisted session", "err", err)
		default:
			sess = next
		}
	}
	s.adopt(ctx, sess, "")
}

func (s *Store) refresh(ctx context.Context, sess *auth.Session) (*auth.Session, error) {
	if sess.RefreshToken == "" {
		return nil, auth.ErrExpired
	}
	raw, err := s.svc.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return nil, auth.RefreshFailed(err)
	}
	next, err := auth.FromAuthSession(raw)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, next)
	return next, nil
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.publish(EventInitialized)
}

// adopt installs sess as the current identity and loads its profile.
// An empty ev publishes nothing.
func (s *Store) adopt(ctx context.Context, sess *auth.Session, ev Event) {
	ts := auth.NewTokenSource(context.WithoutCancel(ctx), s.svc, sess, s.onRefresh)
	s.svc.SetTokenSource(ts)
	profile := s.fetchProfile(ctx, sess)

	s.mu.Lock()
	s.sess = sess
	s.tokens = ts
	s.profile = profile
	s.mu.Unlock()

	if ev != "" {
		s.publish(ev)
	}
}

func (s *Store) fetchProfile(ctx context.Context, sess *auth.Session) *Profile {
	row, err := s.svc.Profile(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			s.logger.Warn("fetch profile", "user_id", sess.UserID, "err", err)
		}
		return &Profile{Email: sess.Email}
	}
	p := ProfileFromRow(row)
	if p.Email == "" {
		p.Email = sess.Email
	}
	return p
}

// onRefresh runs inside the token source while it holds its own lock, so
// it must not issue backend calls.
func (s *Store) onRefresh(next *auth.Session) {
	s.mu.Lock()
	if s.sess == nil || s.sess.UserID != next.UserID {
		s.mu.Unlock()
		return
	}
	s.sess = next
	s.mu.Unlock()

	s.persist(context.Background(), next)
	s.logger.Debug("access token refreshed", "user_id", next.UserID, "expiry", next.Expiry)
	s.publish(EventTokenRefreshed)
}

func (s *Store) persist(ctx context.Context, sess *auth.Session) {
	if err := s.repo.Save(ctx, sess.Record()); err != nil {
		s.logger.Warn("persist session", "err", err)
	}
}

// SignIn authenticates with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	raw, err := s.svc.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return s.start(ctx, raw)
}

// SignUp creates an account and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password, name string) error {
	raw, err := s.svc.SignUp(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return s.start(ctx, raw)
}

func (s *Store) start(ctx context.Context, raw *backend.AuthSession) error {
	sess, err := auth.FromAuthSession(raw)
	if err != nil {
		return err
	}
	s.persist(ctx, sess)
	s.adopt(ctx, sess, EventSignedIn)
	return nil
}

// EnterGuest starts a guest session. No remote call is made.
func (s *Store) EnterGuest() {
	s.mu.Lock()
	s.profile = NewGuestProfile()
	s.mu.Unlock()
	s.publish(EventProfileChanged)
}

// SignOut ends the remote session and clears identity, profile and the
// persisted session. Calling it when signed out is a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	sess := s.sess
	had := sess != nil || s.profile != nil
	s.mu.Unlock()

	if sess != nil {
		if err := s.svc.SignOut(ctx, sess.AccessToken); err != nil {
			s.logger.Warn("remote sign out", "err", err)
		}
	}
	s.clear(ctx)
	if had {
		s.publish(EventSignedOut)
	}
	return nil
}

func (s *Store) clear(ctx context.Context) {
	s.svc.SetTokenSource(nil)
	s.mu.Lock()
	s.sess = nil
	s.tokens = nil
	s.profile = nil
	s.mu.Unlock()
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn("clear persisted session", "err", err)
	}
}

// SetProfile replaces the cached profile. nil clears it.
func (s *Store) SetProfile(p *Profile) {
	s.mu.Lock()
	s.profile = p.clone()
	s.mu.Unlock()
	s.publish(EventProfileChanged)
}

// SaveProfile caches p and, for signed-in learners, upserts the remote
// row. The cache is updated even when the upsert fails.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()

	s.SetProfile(&p)
	if p.IsGuest || sess == nil {
		return nil
	}
	if err := s.svc.UpsertProfile(ctx, p.Row(sess.UserID)); err != nil {
		s.logger.Warn("save profile", "user_id", sess.UserID, "err", err)
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked("")
}

func (s *Store) snapshotLocked(ev Event) Snapshot {
	return Snapshot{Event: ev, Loading: s.loading, Session: s.sess, Profile: s.profile.clone()}
}

// Loading is true until the first Initialize completes.
func (s *Store) Loading() bool { return s.Snapshot().Loading }

// Profile returns a copy of the cached profile, or nil.
func (s *Store) Profile() *Profile { return s.Snapshot().Profile }

// Session returns the current identity, or nil.
func (s *Store) Session() *auth.Session { return s.Snapshot().Session }

// Subscribe returns a channel receiving a Snapshot after every change.
// A slow reader only misses intermediate snapshots, never the latest.
func (s *Store) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 4)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	snap := s.snapshotLocked(ev)
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot to make room.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// StartRefresh schedules the token refresh job.
func (s *Store) StartRefresh() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.refreshTokens),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule token refresh: %w", err)
	}
	sched.Start()

	s.mu.Lock()
	s.sched = sched
	s.mu.Unlock()
	return nil
}

// refreshTokens asks the token source for a token, which refreshes it
// when stale. An unrecoverable refresh signs the learner out locally.
func (s *Store) refreshTokens() {
	s.mu.Lock()
	ts := s.tokens
	s.mu.Unlock()
	if ts == nil {
		return
	}
	if _, err := ts.Token(); err != nil {
		if !errors.Is(err, auth.ErrExpired) {
			s.logger.Warn("token refresh", "err", err)
			return
		}
		s.logger.Info("session expired", "err", err)
		s.clear(context.Background())
		s.publish(EventSignedOut)
	}
}

// Close stops the refresh job and closes subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
	if sched != nil {
		return sched.Shutdown()
	}
	return nil
}
