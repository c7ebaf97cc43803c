package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eltonarunga/lugha-learner-kenya/internal/auth"
	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/store"
)

// countingService records profile traffic and can fail profile reads,
// upserts and refreshes.
type countingService struct {
	backend.Service
	profileCalls int
	profileErr   error
	upsertErr    error
	refreshErr   error
}

func (c *countingService) Profile(ctx context.Context, userID string) (*backend.ProfileRow, error) {
	c.profileCalls++
	if c.profileErr != nil {
		return nil, c.profileErr
	}
	return c.Service.Profile(ctx, userID)
}

func (c *countingService) Refresh(ctx context.Context, refreshToken string) (*backend.AuthSession, error) {
	if c.refreshErr != nil {
		return nil, c.refreshErr
	}
	return c.Service.Refresh(ctx, refreshToken)
}

func (c *countingService) UpsertProfile(ctx context.Context, row backend.ProfileRow) error {
	if c.upsertErr != nil {
		return c.upsertErr
	}
	return c.Service.UpsertProfile(ctx, row)
}

func openRepo(t *testing.T) store.SessionRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "lugha.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st.SessionRepo()
}

func newTestStore(t *testing.T) (*Store, *countingService, store.SessionRepo) {
	t.Helper()
	svc := &countingService{Service: backend.NewMemory()}
	repo := openRepo(t)
	s := New(repo, svc)
	t.Cleanup(func() { s.Close() })
	return s, svc, repo
}

func TestProfileIsComplete(t *testing.T) {
	tests := []struct {
		name string
		p    *Profile
		want bool
	}{
		{"nil", nil, false},
		{"empty", &Profile{}, false},
		{"no age", &Profile{Name: "Wanjiru", Language: language.Kikuyu}, false},
		{"no language", &Profile{Name: "Wanjiru", Age: "21"}, false},
		{"no name", &Profile{Age: "21", Language: language.Kikuyu}, false},
		{"complete", &Profile{Name: "Wanjiru", Age: "21", Language: language.Kikuyu}, true},
		{"complete guest", &Profile{Name: "G", Age: "9", Language: language.Luo, IsGuest: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.IsComplete())
		})
	}
}

func TestSnapshotRoute(t *testing.T) {
	complete := &Profile{Name: "N", Age: "30", Language: language.Swahili}
	sess := &auth.Session{UserID: "u"}
	tests := []struct {
		name string
		snap Snapshot
		want Route
	}{
		{"nobody", Snapshot{}, RouteEntry},
		{"profile without identity", Snapshot{Profile: complete}, RouteEntry},
		{"signed in, no profile", Snapshot{Session: sess}, RouteOnboarding},
		{"signed in, incomplete", Snapshot{Session: sess, Profile: &Profile{Name: "N"}}, RouteOnboarding},
		{"signed in, complete", Snapshot{Session: sess, Profile: complete}, RouteOpen},
		{"fresh guest", Snapshot{Profile: NewGuestProfile()}, RouteOnboarding},
		{"onboarded guest", Snapshot{Profile: &Profile{Name: "N", Age: "30", Language: language.Luo, IsGuest: true}}, RouteOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Route())
			assert.Equal(t, tt.want == RouteOnboarding, tt.snap.NeedsOnboarding())
		})
	}
}

func TestProfileFromRow(t *testing.T) {
	p := ProfileFromRow(&backend.ProfileRow{Name: "Otieno", Age: 34, SelectedLanguage: language.Luo, Email: "o@example.com"})
	assert.Equal(t, &Profile{Name: "Otieno", Age: "34", Language: language.Luo, Email: "o@example.com"}, p)
	assert.True(t, p.IsComplete())

	partial := ProfileFromRow(&backend.ProfileRow{Name: "Otieno", SelectedLanguage: "klingon"})
	assert.Empty(t, partial.Age)
	assert.Empty(t, partial.Language)
	assert.False(t, partial.IsComplete())

	assert.Equal(t, &Profile{}, ProfileFromRow(nil))

	row := p.Row("user-1")
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, 34, row.Age)
}

func TestInitializeWithoutSession(t *testing.T) {
	s, svc, _ := newTestStore(t)
	assert.True(t, s.Loading())

	s.Initialize(context.Background())
	assert.False(t, s.Loading())
	assert.Nil(t, s.Session())
	assert.Nil(t, s.Profile())
	assert.Equal(t, RouteEntry, s.Snapshot().Route())
	assert.Zero(t, svc.profileCalls)
}

func TestSignUpNeedsOnboardingThenSaveCompletes(t *testing.T) {
	s, _, repo := newTestStore(t)
	ctx := context.Background()
	s.Initialize(ctx)

	require.NoError(t, s.SignUp(ctx, "wanjiru@example.com", "siri-yangu", "Wanjiru"))
	snap := s.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, "Wanjiru", snap.Profile.Name)
	assert.Equal(t, "wanjiru@example.com", snap.Profile.Email)
	assert.Equal(t, RouteOnboarding, snap.Route())

	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, snap.Session.UserID, rec.UserID)

	p := *snap.Profile
	p.Age = "21"
	p.Language = language.Kikuyu
	require.NoError(t, s.SaveProfile(ctx, p))
	assert.Equal(t, RouteOpen, s.Snapshot().Route())

	// A second process resolves the same identity and profile.
	s2 := New(repo, s.svc)
	defer s2.Close()
	s2.Initialize(ctx)
	assert.Equal(t, snap.Session.UserID, s2.Session().UserID)
	assert.Equal(t, language.Kikuyu, s2.Profile().Language)
	assert.Equal(t, "21", s2.Profile().Age)
}

func TestInitializeRefreshesExpiredSession(t *testing.T) {
	mem := backend.NewMemory()
	ctx := context.Background()
	raw, err := mem.SignUp(ctx, "kiprono@example.com", "chamgei-sana", "Kiprono")
	require.NoError(t, err)
	sess, err := auth.FromAuthSession(raw)
	require.NoError(t, err)

	repo := openRepo(t)
	require.NoError(t, repo.Save(ctx, sess.Record()))

	later := func() time.Time { return time.Now().Add(3 * time.Hour) }
	s := New(repo, mem, WithClock(later))
	defer s.Close()
	s.Initialize(ctx)

	got := s.Session()
	require.NotNil(t, got)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.NotEqual(t, sess.RefreshToken, got.RefreshToken)

	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, got.RefreshToken, rec.RefreshToken)
}

func TestInitializeDropsUnrefreshableSession(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, store.SessionRecord{
		AccessToken:  "stale",
		RefreshToken: "unknown",
		UserID:       "ghost",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	s := New(repo, backend.NewMemory())
	defer s.Close()
	s.Initialize(ctx)

	assert.Nil(t, s.Session())
	assert.False(t, s.Loading())
	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestInitializeKeepsSessionWhenBackendUnreachable(t *testing.T) {
	mem := backend.NewMemory()
	ctx := context.Background()
	raw, err := mem.SignUp(ctx, "cherono@example.com", "chamgei-sana", "Cherono")
	require.NoError(t, err)
	sess, err := auth.FromAuthSession(raw)
	require.NoError(t, err)

	stale := sess.Record()
	stale.Expiry = time.Now().Add(-time.Minute)
	repo := openRepo(t)
	require.NoError(t, repo.Save(ctx, stale))

	svc := &countingService{Service: mem, refreshErr: errors.New("dial tcp 127.0.0.1:54321: connect: connection refused")}
	s := New(repo, svc)
	defer s.Close()
	s.Initialize(ctx)

	require.NotNil(t, s.Session(), "a network failure is not an expiry")
	assert.Equal(t, sess.UserID, s.Session().UserID)
	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, sess.RefreshToken, rec.RefreshToken)

	s.refreshTokens()
	assert.NotNil(t, s.Session(), "the refresh job keeps the session while offline")

	svc.refreshErr = nil
	ch := s.Subscribe()
	s.refreshTokens()
	snap := <-ch
	assert.Equal(t, EventTokenRefreshed, snap.Event)
	assert.NotEqual(t, sess.RefreshToken, snap.Session.RefreshToken)
	rec, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Session.RefreshToken, rec.RefreshToken)
}

func TestProfileFetchFailureMeansOnboarding(t *testing.T) {
	s, svc, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUp(ctx, "kamau@example.com", "habari-gani", "Kamau"))
	require.NoError(t, s.SaveProfile(ctx, Profile{Name: "Kamau", Age: "28", Language: language.Kikuyu}))

	svc.profileErr = &backend.APIError{Status: 500, Message: "internal error"}
	s2 := New(repo, svc)
	defer s2.Close()
	s2.Initialize(ctx)

	snap := s2.Snapshot()
	assert.True(t, snap.Authenticated())
	assert.Equal(t, RouteOnboarding, snap.Route())
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "kamau@example.com", snap.Profile.Email)
	assert.False(t, snap.Profile.IsComplete())
}

func TestGuestMakesNoRemoteProfileCalls(t *testing.T) {
	s, svc, _ := newTestStore(t)
	ctx := context.Background()
	s.Initialize(ctx)

	s.EnterGuest()
	snap := s.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.True(t, snap.Profile.IsGuest)
	assert.Empty(t, snap.Profile.Email)
	assert.Nil(t, snap.Session)
	assert.Equal(t, RouteOnboarding, snap.Route())

	require.NoError(t, s.SaveProfile(ctx, Profile{Name: "Mgeni", Age: "12", Language: language.Swahili, IsGuest: true}))
	assert.Equal(t, RouteOpen, s.Snapshot().Route())
	assert.Zero(t, svc.profileCalls)
}

func TestSaveProfileFailureStillUpdatesCache(t *testing.T) {
	s, svc, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUp(ctx, "achieng@example.com", "misawa-123", "Achieng"))

	svc.upsertErr = errors.New("network down")
	err := s.SaveProfile(ctx, Profile{Name: "Achieng", Age: "40", Language: language.Luo})
	assert.Error(t, err)
	assert.Equal(t, language.Luo, s.Profile().Language)
}

func TestSignOutIsIdempotent(t *testing.T) {
	s, _, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SignUp(ctx, "baraka@example.com", "habari-yako", "Baraka"))

	require.NoError(t, s.SignOut(ctx))
	require.NoError(t, s.SignOut(ctx))

	assert.Nil(t, s.Session())
	assert.Nil(t, s.Profile())
	assert.Equal(t, RouteEntry, s.Snapshot().Route())
	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSetProfileCopies(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := &Profile{Name: "Amani"}
	s.SetProfile(p)
	p.Name = "changed"
	assert.Equal(t, "Amani", s.Profile().Name)

	s.SetProfile(nil)
	assert.Nil(t, s.Profile())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s, _, _ := newTestStore(t)
	ch := s.Subscribe()
	ctx := context.Background()

	s.Initialize(ctx)
	snap := <-ch
	assert.Equal(t, EventInitialized, snap.Event)
	assert.False(t, snap.Loading)

	require.NoError(t, s.SignUp(ctx, "zawadi@example.com", "karibu-sana", "Zawadi"))
	snap = <-ch
	assert.Equal(t, EventSignedIn, snap.Event)
	assert.True(t, snap.Authenticated())

	require.NoError(t, s.SignOut(ctx))
	snap = <-ch
	assert.Equal(t, EventSignedOut, snap.Event)
	assert.False(t, snap.Authenticated())

	require.NoError(t, s.Close())
	_, open := <-ch
	assert.False(t, open)
}

func TestRefreshTokensRenewsStaleToken(t *testing.T) {
	mem := backend.NewMemory()
	repo := openRepo(t)
	s := New(repo, mem)
	defer s.Close()
	ctx := context.Background()

	raw, err := mem.SignUp(ctx, "njeri@example.com", "wi-mwega", "Njeri")
	require.NoError(t, err)
	sess, err := auth.FromAuthSession(raw)
	require.NoError(t, err)
	stale := *sess
	stale.Expiry = time.Now().Add(10 * time.Second)
	s.adopt(ctx, &stale, EventSignedIn)

	ch := s.Subscribe()
	s.refreshTokens()

	snap := <-ch
	assert.Equal(t, EventTokenRefreshed, snap.Event)
	assert.NotEqual(t, stale.AccessToken, snap.Session.AccessToken)
	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Session.RefreshToken, rec.RefreshToken)
}

func TestRefreshTokensSignsOutWhenRefreshFails(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	s.adopt(ctx, &auth.Session{
		AccessToken:  "old",
		RefreshToken: "bogus",
		UserID:       "u-1",
		Expiry:       time.Now().Add(-time.Minute),
	}, EventSignedIn)
	require.NotNil(t, s.Session())

	s.refreshTokens()
	assert.Nil(t, s.Session())
	assert.Equal(t, RouteEntry, s.Snapshot().Route())
}

func TestStartRefreshAndClose(t *testing.T) {
	s := New(openRepo(t), backend.NewMemory(), WithRefreshInterval(time.Hour))
	require.NoError(t, s.StartRefresh())
	assert.NoError(t, s.Close())
}
