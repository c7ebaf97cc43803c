// Package auth is the sign in / create account form.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// MinPasswordLength is enforced before any call is made.
const MinPasswordLength = 6

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

type resultMsg struct {
	owner *Screen
	err   error
}

// Screen collects credentials and signs the learner in. Navigation on
// success is left to the app guard.
type Screen struct {
	env    *env.Env
	mode   Mode
	inputs [3]components.TextInput
	focus  int
	busy   bool
	errMsg string
	left   bool
}

var (
	_ screen.Screen = (*Screen)(nil)
	_ screen.Named  = (*Screen)(nil)
	_ screen.Leaver = (*Screen)(nil)
)

// New creates the form in mode.
func New(e *env.Env, mode Mode) *Screen {
	s := &Screen{env: e, mode: mode}
	s.inputs[fieldName] = components.NewTextInput("Name", "Wanjiku Kamau", 60)
	s.inputs[fieldEmail] = components.NewTextInput("Email", "you@example.com", 120)
	s.inputs[fieldPassword] = components.NewPasswordInput("Password", "at least 6 characters")
	s.setFocus(s.first())
	return s
}

func (s *Screen) Init() tea.Cmd { return s.inputs[s.focus].Init() }

func (s *Screen) Title() string {
	if s.mode == ModeSignUp {
		return "Create Account"
	}
	return "Sign In"
}

func (s *Screen) Name() string { return screen.NameAuth }

func (s *Screen) Leave() { s.left = true }

// Mode returns the current form mode.
func (s *Screen) Mode() Mode { return s.mode }

// Busy reports whether a call is in flight.
func (s *Screen) Busy() bool { return s.busy }

// Err returns the message under the form.
func (s *Screen) Err() string { return s.errMsg }

func (s *Screen) KeyHints() []layout.KeyHint {
	other := "Create account"
	if s.mode == ModeSignUp {
		other = "Sign in instead"
	}
	return layout.Hints("Tab", "Next field", "Enter", "Submit", "Ctrl+T", other, "Esc", "Back")
}

func (s *Screen) first() int {
	if s.mode == ModeSignUp {
		return fieldName
	}
	return fieldEmail
}

func (s *Screen) setFocus(i int) tea.Cmd {
	s.focus = i
	var cmd tea.Cmd
	for j := range s.inputs {
		if j == i {
			cmd = s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
	return cmd
}

func (s *Screen) move(delta int) tea.Cmd {
	first := s.first()
	n := fieldPassword - first + 1
	i := (s.focus-first+delta+n)%n + first
	return s.setFocus(i)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.owner != s || s.left {
			return s, nil
		}
		s.busy = false
		if msg.err != nil {
			s.errMsg = describe(s.mode, msg.err)
			s.env.Log().Warn("authentication failed", "mode", s.mode, "err", msg.err)
			return s, nil
		}
		s.errMsg = ""
		s.inputs[fieldPassword].Reset()
		return s, nil

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+t":
			if s.mode == ModeSignIn {
				s.mode = ModeSignUp
			} else {
				s.mode = ModeSignIn
			}
			s.errMsg = ""
			return s, s.setFocus(s.first())
		case "tab", "down":
			return s, s.move(1)
		case "shift+tab", "up":
			return s, s.move(-1)
		case "enter":
			if s.focus != fieldPassword {
				return s, s.move(1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// validate checks the form locally and returns the first problem.
func (s *Screen) validate() string {
	if s.mode == ModeSignUp && strings.TrimSpace(s.inputs[fieldName].Value()) == "" {
		return "Please enter your name"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(s.inputs[fieldEmail].Value())); err != nil {
		return "Please enter a valid email address"
	}
	if len(s.inputs[fieldPassword].Value()) < MinPasswordLength {
		return "Password must be at least 6 characters"
	}
	return ""
}

func (s *Screen) submit() tea.Cmd {
	if msg := s.validate(); msg != "" {
		s.errMsg = msg
		return nil
	}
	s.busy = true
	s.errMsg = ""

	store, timeout, mode := s.env.Session, s.env.Timeout(), s.mode
	name := strings.TrimSpace(s.inputs[fieldName].Value())
	email := strings.TrimSpace(s.inputs[fieldEmail].Value())
	password := s.inputs[fieldPassword].Value()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if mode == ModeSignUp {
			err = store.SignUp(ctx, email, password, name)
		} else {
			err = store.SignIn(ctx, email, password)
		}
		return resultMsg{owner: s, err: err}
	}
}

// describe turns an authentication error into a line for the form.
func describe(mode Mode, err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer. Please try again."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case mode == ModeSignUp:
		return "Could not create your account. Please try again."
	default:
		return "Could not sign you in. Please try again."
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	var b strings.Builder
	heading := "Welcome back"
	sub := "Sign in to keep your streak going"
	if s.mode == ModeSignUp {
		heading = "Karibu!"
		sub = "Create an account to save your progress"
	}
	b.WriteString(theme.Title.Render(heading) + "\n")
	b.WriteString(theme.Subtitle.Render(sub) + "\n\n")

	for i := s.first(); i <= fieldPassword; i++ {
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case s.busy && s.mode == ModeSignUp:
		b.WriteString(theme.Pending.Render("Creating account..."))
	case s.busy:
		b.WriteString(theme.Pending.Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	default:
		label := "Sign In"
		if s.mode == ModeSignUp {
			label = "Create Account"
		}
		style := theme.ButtonInactive
		if s.focus == fieldPassword {
			style = theme.ButtonActive
		}
		b.WriteString(style.Render(label))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card("", b.String(), cw))
}
