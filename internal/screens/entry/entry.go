// Package entry is the landing screen for learners with no session.
package entry

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	authscreen "github.com/eltonarunga/lugha-learner-kenya/internal/screens/auth"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

const (
	tickInterval  = 100 * time.Millisecond
	introEnd      = 800 * time.Millisecond
	greetingEvery = 15 // ticks per greeting
)

type tickMsg time.Time

// Screen offers sign in, sign up and guest access.
type Screen struct {
	env       *env.Env
	menu      components.Menu
	elapsed   time.Duration
	tickCount int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Named = (*Screen)(nil)

// New creates the entry screen.
func New(e *env.Env) *Screen {
	s := &Screen{env: e}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Sign In", Detail: "continue where you left off", Action: func() tea.Cmd {
			return router.Push(authscreen.New(e, authscreen.ModeSignIn))
		}},
		{Label: "Create Account", Detail: "save XP, streaks and badges", Action: func() tea.Cmd {
			return router.Push(authscreen.New(e, authscreen.ModeSignUp))
		}},
		{Label: "Continue as Guest", Detail: "progress is not saved", Action: func() tea.Cmd {
			e.Session.EnterGuest()
			return nil
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *Screen) Init() tea.Cmd { return tick() }

func (s *Screen) Title() string { return "" }

func (s *Screen) Name() string { return screen.NameEntry }

func (s *Screen) KeyHints() []layout.KeyHint {
	return layout.Hints("↑↓", "Navigate", "Enter", "Select", "Ctrl+C", "Quit")
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.elapsed < introEnd {
			s.elapsed += tickInterval
		}
		s.tickCount++
		return s, tick()

	case tea.KeyPressMsg:
		// The first key during the intro only skips it.
		if s.elapsed < introEnd {
			s.elapsed = introEnd
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

// greeting cycles through the hello of every supported language.
func (s *Screen) greeting() string {
	codes := language.All()
	c := codes[(s.tickCount/greetingEvery)%len(codes)]
	info, _ := language.Lookup(c)
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info.Greeting) +
		theme.Hint.Render("  ("+info.NativeName+")")
}

func (s *Screen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		s.greeting(),
	}

	if s.elapsed >= introEnd {
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Learn the languages of Kenya"),
			theme.Subtitle.Render("Kiswahili · Gĩkũyũ · Dholuo · Kalenjin"),
			"",
			s.menu.View(),
		)
	} else {
		sections = append(sections, "", theme.Hint.Render("press any key"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
