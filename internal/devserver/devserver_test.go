package devserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/logging"
)

func start(t *testing.T) (*Server, string) {
	t.Helper()
	srv := New(backend.NewMemory(), WithLogger(logging.Discard()))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv, "http://" + ln.Addr().String()
}

func client(t *testing.T, url, key string) *backend.Client {
	t.Helper()
	c, err := backend.NewClient(backend.ClientConfig{BaseURL: url, AnonKey: key, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func signIn(c *backend.Client, sess *backend.AuthSession) {
	c.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sess.AccessToken}))
}

func TestClientEndToEnd(t *testing.T) {
	srv, url := start(t)
	c := client(t, url, srv.AnonKey())
	ctx := context.Background()

	lessons, err := c.Lessons(ctx, language.Swahili)
	require.NoError(t, err)
	require.NotEmpty(t, lessons)
	for _, l := range lessons {
		assert.Equal(t, language.Swahili, l.LanguageCode)
	}

	qs, err := c.Questions(ctx, "sw-greetings")
	require.NoError(t, err)
	require.Len(t, qs, 3)

	_, err = c.CompleteLesson(ctx, "sw-greetings", 3, language.Swahili)
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr), "anonymous completion is rejected")
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	sess, err := c.SignUp(ctx, "zawadi@example.com", "secret123", "Zawadi")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.RefreshToken)
	signIn(c, sess)

	require.NoError(t, c.UpsertProfile(ctx, backend.ProfileRow{
		UserID: sess.User.ID, Name: "Zawadi", Age: 28, SelectedLanguage: language.Swahili,
	}))
	row, err := c.Profile(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 28, row.Age)
	assert.Equal(t, language.Swahili, row.SelectedLanguage)

	score := 0
	for _, key := range []int{0, 1, 0} {
		res, err := c.CheckAnswer(ctx, qs[score].ID, key)
		require.NoError(t, err)
		assert.True(t, res.IsCorrect)
		score++
	}
	done, err := c.CompleteLesson(ctx, "sw-greetings", score, language.Swahili)
	require.NoError(t, err)
	assert.True(t, done.Success)
	assert.Equal(t, 35, done.TotalXPEarned)

	n, err := c.CompletedLessons(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hist, err := c.XPHistory(ctx, 7)
	require.NoError(t, err)
	total := 0
	for _, d := range hist {
		total += d.XP
	}
	assert.Equal(t, 35, total)

	board, err := c.Leaderboard(ctx, 50)
	require.NoError(t, err)
	found := false
	for _, e := range board {
		if e.UserID == sess.User.ID {
			found = true
			assert.Equal(t, 35, e.TotalXP)
		}
	}
	assert.True(t, found, "signed up learner is ranked")

	refreshed, err := c.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, refreshed.RefreshToken)

	require.NoError(t, c.SignOut(ctx, refreshed.AccessToken))
	signIn(c, refreshed)
	err = c.UpsertProfile(ctx, backend.ProfileRow{Name: "Zawadi"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status, "revoked token")
}

func TestEmptyCountAndMissingProfile(t *testing.T) {
	srv, url := start(t)
	c := client(t, url, srv.AnonKey())
	ctx := context.Background()

	n, err := c.CompletedLessons(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.Profile(ctx, "nobody")
	assert.True(t, errors.Is(err, backend.ErrNotFound))
}

func TestRejectsWrongAPIKey(t *testing.T) {
	_, url := start(t)
	c := client(t, url, "wrong")
	_, err := c.Lessons(context.Background(), "")
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid API key", apiErr.Message)
}

func TestSignInFailureShape(t *testing.T) {
	srv, url := start(t)
	c := client(t, url, srv.AnonKey())
	_, err := c.SignIn(context.Background(), "ghost@example.com", "nope12")
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)
}

func TestUnknownRPC(t *testing.T) {
	srv := New(backend.NewMemory(), WithLogger(logging.Discard()))
	req, err := http.NewRequest(http.MethodPost, "/rest/v1/rpc/drop_everything", nil)
	require.NoError(t, err)
	req.Header.Set("apikey", srv.AnonKey())
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
