// Package devserver serves a backend.Memory over the same REST and auth
// paths the HTTP client calls, so the client can run end to end without
// the hosted project.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// DefaultAnonKey is accepted when no key is configured.
const DefaultAnonKey = "lugha-dev-anon-key"

const localsCaller = "caller"

// Option configures a Server.
type Option func(*Server)

// WithAnonKey sets the API key clients must send.
func WithAnonKey(key string) Option {
	return func(s *Server) {
		if key != "" {
			s.anonKey = key
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Server is the fiber app in front of a Memory.
type Server struct {
	mem     *backend.Memory
	anonKey string
	logger  *slog.Logger
	app     *fiber.App
}

// New builds the server and its routes.
func New(mem *backend.Memory, opts ...Option) *Server {
	s := &Server{mem: mem, anonKey: DefaultAnonKey, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s
}

// AnonKey returns the API key the server accepts.
func (s *Server) AnonKey() string { return s.anonKey }

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("devserver listening", "addr", addr)
	return s.app.Listen(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("devserver listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// Shutdown stops the server, waiting for in-flight requests until ctx
// is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(s.logRequests, s.requireAPIKey, s.identify)

	rest := s.app.Group("/rest/v1")
	rest.Get("/lessons", s.lessons)
	rest.Post("/rpc/:fn", s.rpc)
	rest.Get("/profiles", s.profile)
	rest.Post("/profiles", s.upsertProfile)
	rest.Get("/achievements", s.achievements)
	rest.Get("/user_achievements", s.earnedAchievements)
	rest.Get("/user_progress", s.completedLessons)

	auth := s.app.Group("/auth/v1")
	auth.Post("/token", s.token)
	auth.Post("/signup", s.signUp)
	auth.Post("/logout", s.logout)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.logger.Debug("devserver request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"request_id", c.Get("X-Request-ID"),
		"duration_ms", time.Since(start).Milliseconds())
	return err
}

func (s *Server) requireAPIKey(c *fiber.Ctx) error {
	if c.Get("apikey") != s.anonKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid API key",
			"hint":    "Double check your anon key.",
		})
	}
	return c.Next()
}

// identify attaches a Memory view authenticated with the request's
// bearer token. The anon key in Authorization means no caller.
func (s *Server) identify(c *fiber.Ctx) error {
	var ts oauth2.TokenSource
	if tok := bearerToken(c); tok != "" && tok != s.anonKey {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
	}
	c.Locals(localsCaller, s.mem.WithTokenSource(ts))
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func caller(c *fiber.Ctx) *backend.Memory {
	return c.Locals(localsCaller).(*backend.Memory)
}

// eq strips the PostgREST "eq." operator from a filter value.
func eq(v string) string { return strings.TrimPrefix(v, "eq.") }

func decode(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return &backend.APIError{Status: fiber.StatusBadRequest, Code: "PGRST102", Message: "Invalid JSON body"}
	}
	return nil
}

func (s *Server) lessons(c *fiber.Ctx) error {
	rows, err := caller(c).Lessons(c.UserContext(), language.Code(eq(c.Query("language_code"))))
	if err != nil {
		return err
	}
	return c.JSON(orEmpty(rows))
}

func (s *Server) rpc(c *fiber.Ctx) error {
	ctx := c.UserContext()
	m := caller(c)

	switch fn := c.Params("fn"); fn {
	case "get_public_questions":
		var args struct {
			LessonID string `json:"lesson_id"`
		}
		if err := decode(c, &args); err != nil {
			return err
		}
		qs, err := m.Questions(ctx, args.LessonID)
		if err != nil {
			return err
		}
		return c.JSON(orEmpty(qs))

	case "check_answer":
		var args struct {
			QuestionID string `json:"p_question_id"`
			Selected   int    `json:"p_selected_answer"`
		}
		if err := decode(c, &args); err != nil {
			return err
		}
		res, err := m.CheckAnswer(ctx, args.QuestionID, args.Selected)
		if err != nil {
			return err
		}
		return c.JSON([]backend.AnswerResult{res})

	case "complete_lesson":
		var args struct {
			LessonID string        `json:"p_lesson_id"`
			Score    int           `json:"p_score"`
			Language language.Code `json:"p_language_code"`
		}
		if err := decode(c, &args); err != nil {
			return err
		}
		res, err := m.CompleteLesson(ctx, args.LessonID, args.Score, args.Language)
		if err != nil {
			return err
		}
		return c.JSON([]backend.CompletionResult{res})

	case "get_public_leaderboard":
		var args struct {
			Limit int `json:"p_limit"`
		}
		if err := decode(c, &args); err != nil {
			return err
		}
		rows, err := m.Leaderboard(ctx, args.Limit)
		if err != nil {
			return err
		}
		return c.JSON(orEmpty(rows))

	case "get_xp_history":
		var args struct {
			Days int `json:"p_days"`
		}
		if err := decode(c, &args); err != nil {
			return err
		}
		rows, err := m.XPHistory(ctx, args.Days)
		if err != nil {
			return err
		}
		return c.JSON(orEmpty(rows))

	default:
		return &backend.APIError{
			Status:  fiber.StatusNotFound,
			Code:    "PGRST202",
			Message: fmt.Sprintf("Could not find the function public.%s", fn),
		}
	}
}

func (s *Server) profile(c *fiber.Ctx) error {
	row, err := caller(c).Profile(c.UserContext(), eq(c.Query("user_id")))
	if errors.Is(err, backend.ErrNotFound) {
		return c.JSON([]backend.ProfileRow{})
	}
	if err != nil {
		return err
	}
	return c.JSON([]backend.ProfileRow{*row})
}

func (s *Server) upsertProfile(c *fiber.Ctx) error {
	var row backend.ProfileRow
	if err := decode(c, &row); err != nil {
		return err
	}
	if err := caller(c).UpsertProfile(c.UserContext(), row); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (s *Server) achievements(c *fiber.Ctx) error {
	rows, err := caller(c).Achievements(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orEmpty(rows))
}

func (s *Server) earnedAchievements(c *fiber.Ctx) error {
	rows, err := caller(c).EarnedAchievements(c.UserContext(), eq(c.Query("user_id")))
	if err != nil {
		return err
	}
	return c.JSON(orEmpty(rows))
}

// completedLessons answers the count=exact query with a Content-Range
// total and an empty page.
func (s *Server) completedLessons(c *fiber.Ctx) error {
	n, err := caller(c).CompletedLessons(c.UserContext(), eq(c.Query("user_id")))
	if err != nil {
		return err
	}
	if n == 0 {
		c.Set(fiber.HeaderContentRange, "*/0")
	} else {
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("0-0/%d", n))
	}
	return c.JSON([]struct{}{})
}

func (s *Server) token(c *fiber.Ctx) error {
	var body struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := decode(c, &body); err != nil {
		return err
	}

	var (
		sess *backend.AuthSession
		err  error
	)
	switch c.Query("grant_type") {
	case "password":
		sess, err = s.mem.SignIn(c.UserContext(), body.Email, body.Password)
	case "refresh_token":
		sess, err = s.mem.Refresh(c.UserContext(), body.RefreshToken)
	default:
		return &backend.APIError{Status: fiber.StatusBadRequest, Code: "unsupported_grant_type", Message: "Unsupported grant type"}
	}
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

func (s *Server) signUp(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Data     struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := decode(c, &body); err != nil {
		return err
	}
	sess, err := s.mem.SignUp(c.UserContext(), body.Email, body.Password, body.Data.Name)
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.mem.SignOut(c.UserContext(), bearerToken(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func statusFor(err error) int {
	var apiErr *backend.APIError
	var fe *fiber.Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, backend.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, backend.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// handleError renders errors in the PostgREST {code, message} shape.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	body := fiber.Map{"message": err.Error()}

	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		body["code"] = apiErr.Code
		if apiErr.Message != "" {
			body["message"] = apiErr.Message
		}
	case errors.Is(err, backend.ErrUnauthorized):
		body["code"] = "PGRST301"
	case errors.Is(err, backend.ErrNotFound):
		body["code"] = "PGRST116"
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("devserver handler failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(body)
}

func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
