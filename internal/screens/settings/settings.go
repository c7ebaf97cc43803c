// Package settings lets the learner switch language and sign out.
package settings

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

type savedMsg struct {
	code language.Code
	err  error
}

type signedOutMsg struct{}

// Screen shows account details and preferences.
type Screen struct {
	env  *env.Env
	menu components.Menu
	busy bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the settings screen.
func New(e *env.Env) *Screen {
	s := &Screen{env: e}
	s.rebuild()
	return s
}

func (s *Screen) rebuild() {
	current := s.env.Language()
	selected := 0
	var items []components.MenuItem
	for _, c := range language.All() {
		detail := c.Label()
		if c == current {
			detail += "  (current)"
			selected = len(items)
		}
		items = append(items, components.MenuItem{
			Label:  c.NativeName(),
			Detail: detail,
			Action: func() tea.Cmd { return s.changeLanguage(c) },
		})
	}

	out := "Sign Out"
	if p := s.env.Session.Profile(); p != nil && p.IsGuest {
		out = "Leave Guest Mode"
	}
	items = append(items, components.MenuItem{Label: out, Action: s.signOut})

	prev := s.menu.Selected
	s.menu = components.NewMenu(items)
	if prev > 0 {
		s.menu.Selected = prev
	} else {
		s.menu.Selected = selected
	}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Settings" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return layout.Hints("↑↓", "Navigate", "Enter", "Select", "Esc", "Back")
}

func (s *Screen) changeLanguage(c language.Code) tea.Cmd {
	p := s.env.Session.Profile()
	if p == nil || p.Language == c || s.busy {
		return nil
	}
	s.busy = true
	next := *p
	next.Language = c
	store, timeout := s.env.Session, s.env.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return savedMsg{code: c, err: store.SaveProfile(ctx, next)}
	}
}

func (s *Screen) signOut() tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	store, timeout := s.env.Session, s.env.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = store.SignOut(ctx)
		return signedOutMsg{}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.busy = false
		s.rebuild()
		if msg.err != nil {
			s.env.Log().Warn("language change not uploaded", "language", msg.code, "err", msg.err)
			return s, screen.Toast("Language changed on this device. We'll sync it shortly.")
		}
		return s, tea.Batch(
			screen.Toast(fmt.Sprintf("Now learning %s", msg.code.NativeName())),
			screen.StatsChanged(),
		)
	case signedOutMsg:
		s.busy = false
		return s, nil
	case screen.SessionMsg:
		s.rebuild()
		return s, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var account strings.Builder
	p := s.env.Session.Profile()
	switch {
	case p == nil:
		account.WriteString(theme.Hint.Render("Not signed in"))
	case p.IsGuest:
		account.WriteString(theme.Body.Render(p.Name) + "\n")
		account.WriteString(theme.Hint.Render("Guest: progress is not saved to an account"))
	default:
		account.WriteString(theme.Body.Render(p.Name) + "\n")
		account.WriteString(theme.Hint.Render(p.Email))
	}

	partner := "Scripted replies"
	if s.env.Partner != nil {
		partner = "AI conversation partner enabled"
	}

	sections := []string{
		components.Card("Account", account.String(), cw),
		components.Card("Preferences", s.menu.View(), cw),
		components.Card("Conversation practice", theme.Hint.Render(partner), cw),
	}
	if s.busy {
		sections = append(sections, theme.Pending.Render("Saving..."))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}
