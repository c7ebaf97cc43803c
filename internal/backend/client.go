package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client implements Service over the PostgREST and GoTrue HTTP APIs.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	logger  *slog.Logger

	mu     sync.RWMutex
	tokens oauth2.TokenSource
}

var _ Service = (*Client)(nil)

// NewClient creates a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		http:    hc,
		logger:  logger,
	}, nil
}

func (c *Client) SetTokenSource(ts oauth2.TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) Lessons(ctx context.Context, code language.Code) ([]Lesson, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_active", "eq.true")
	q.Set("order", "order_index")
	if code != "" {
		q.Set("language_code", "eq."+string(code))
	}
	var out []Lesson
	if err := c.get(ctx, "/rest/v1/lessons", q, &out); err != nil {
		return nil, fmt.Errorf("fetch lessons: %w", err)
	}
	return out, nil
}

func (c *Client) Questions(ctx context.Context, lessonID string) ([]Question, error) {
	var out []Question
	if err := c.rpc(ctx, "get_public_questions", map[string]any{"lesson_id": lessonID}, &out); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return out, nil
}

func (c *Client) CheckAnswer(ctx context.Context, questionID string, selected int) (AnswerResult, error) {
	var rows []AnswerResult
	err := c.rpc(ctx, "check_answer", map[string]any{
		"p_question_id":     questionID,
		"p_selected_answer": selected,
	}, &rows)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("check answer: %w", err)
	}
	if len(rows) == 0 {
		return AnswerResult{}, fmt.Errorf("check answer: empty result")
	}
	return rows[0], nil
}

func (c *Client) CompleteLesson(ctx context.Context, lessonID string, score int, code language.Code) (CompletionResult, error) {
	var rows []CompletionResult
	err := c.rpc(ctx, "complete_lesson", map[string]any{
		"p_lesson_id":     lessonID,
		"p_score":         score,
		"p_language_code": string(code),
	}, &rows)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("complete lesson: %w", err)
	}
	if len(rows) == 0 {
		return CompletionResult{}, fmt.Errorf("complete lesson: empty result")
	}
	return rows[0], nil
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	if err := c.rpc(ctx, "get_public_leaderboard", map[string]any{"p_limit": limit}, &out); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (*ProfileRow, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)
	var rows []ProfileRow
	if err := c.get(ctx, "/rest/v1/profiles", q, &rows); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fetch profile %s: %w", userID, ErrNotFound)
	}
	return &rows[0], nil
}

func (c *Client) UpsertProfile(ctx context.Context, row ProfileRow) error {
	q := url.Values{}
	q.Set("on_conflict", "user_id")
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/profiles", q, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (c *Client) Achievements(ctx context.Context) ([]Achievement, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_active", "eq.true")
	var out []Achievement
	if err := c.get(ctx, "/rest/v1/achievements", q, &out); err != nil {
		return nil, fmt.Errorf("fetch achievements: %w", err)
	}
	return out, nil
}

func (c *Client) EarnedAchievements(ctx context.Context, userID string) ([]EarnedAchievement, error) {
	q := url.Values{}
	q.Set("select", "achievement_id,earned_at")
	q.Set("user_id", "eq."+userID)
	var out []EarnedAchievement
	if err := c.get(ctx, "/rest/v1/user_achievements", q, &out); err != nil {
		return nil, fmt.Errorf("fetch earned achievements: %w", err)
	}
	return out, nil
}

func (c *Client) CompletedLessons(ctx context.Context, userID string) (int, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("user_id", "eq."+userID)
	q.Set("is_completed", "eq.true")
	q.Set("limit", "1")
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/user_progress", q, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")
	resp, err := c.do(req, nil)
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	n, err := parseContentRangeTotal(resp.Header.Get("Content-Range"))
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return n, nil
}

func (c *Client) XPHistory(ctx context.Context, days int) ([]DayXP, error) {
	var out []DayXP
	if err := c.rpc(ctx, "get_xp_history", map[string]any{"p_days": days}, &out); err != nil {
		return nil, fmt.Errorf("fetch xp history: %w", err)
	}
	return out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	q := url.Values{}
	q.Set("grant_type", "password")
	var out AuthSession
	err := c.post(ctx, "/auth/v1/token", q, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (*AuthSession, error) {
	var out AuthSession
	err := c.post(ctx, "/auth/v1/signup", nil, map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return &out, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	q := url.Values{}
	q.Set("grant_type", "refresh_token")
	var out AuthSession
	err := c.post(ctx, "/auth/v1/token", q, map[string]string{"refresh_token": refreshToken}, &out)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return &out, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, out)
	return err
}

func (c *Client) post(ctx context.Context, path string, q url.Values, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, q, body)
	if err != nil {
		return err
	}
	_, err = c.do(req, out)
	return err
}

func (c *Client) rpc(ctx context.Context, fn string, args, out any) error {
	return c.post(ctx, "/rest/v1/rpc/"+fn, nil, args, out)
}

// newRequest builds a request carrying the API key, the caller's bearer
// token (or the anon key when signed out) and a fresh request id.
func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()

	if tok := c.bearer(ts, method, path); tok != nil {
		tok.SetAuthHeader(req)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	return req, nil
}

// bearer returns the caller's token, or nil to fall back to the anon key.
func (c *Client) bearer(ts oauth2.TokenSource, method, path string) *oauth2.Token {
	if ts == nil {
		return nil
	}
	tok, err := ts.Token()
	if err != nil {
		c.logger.Debug("no bearer token, sending anonymous request",
			"method", method, "path", path, "err", err)
		return nil
	}
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	return tok
}

// do sends req, decodes a JSON body into out when out is non-nil, and
// converts non-2xx responses into *APIError.
func (c *Client) do(req *http.Request, out any) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

// decodeAPIError understands both the PostgREST error shape
// ({code, message}) and the auth server's ({error, error_description} or {msg}).
func decodeAPIError(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		RequestID: resp.Request.Header.Get("X-Request-ID"),
	}
	var payload struct {
		Code             any    `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch v := payload.Code.(type) {
		case string:
			apiErr.Code = v
		case float64:
			apiErr.Code = strconv.Itoa(int(v))
		}
		if payload.Error != "" && apiErr.Code == "" {
			apiErr.Code = payload.Error
		}
		for _, m := range []string{payload.Message, payload.ErrorDescription, payload.Msg} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
	}
	return apiErr
}

// parseContentRangeTotal extracts the total from "0-9/42" or "*/0".
func parseContentRangeTotal(h string) (int, error) {
	i := strings.LastIndexByte(h, '/')
	if i < 0 || i == len(h)-1 {
		return 0, fmt.Errorf("malformed Content-Range %q", h)
	}
	total := h[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("Content-Range %q has no exact count", h)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("malformed Content-Range %q: %w", h, err)
	}
	return n, nil
}
