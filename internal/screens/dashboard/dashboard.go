// Package dashboard is the home screen: today's figures, the lesson list
// for the learner's language and shortcuts to every other screen.
package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	prog "github.com/eltonarunga/lugha-learner-kenya/internal/progress"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/router"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/challenges"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/community"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/conversation"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/grammar"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/leaderboard"
	lessonscreen "github.com/eltonarunga/lugha-learner-kenya/internal/screens/lesson"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/library"
	progressscreen "github.com/eltonarunga/lugha-learner-kenya/internal/screens/progress"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/review"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/settings"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Name identifies the dashboard to the navigation guard.
const Name = "dashboard"

// maxLessons caps the lesson list; the rest scroll.
const maxLessons = 6

type action struct {
	label string
	open  func(*env.Env) screen.Screen
}

var actions = []action{
	{"Progress", func(e *env.Env) screen.Screen { return progressscreen.New(e) }},
	{"Leaderboard", func(e *env.Env) screen.Screen { return leaderboard.New(e) }},
	{"Review", func(e *env.Env) screen.Screen { return review.New(e) }},
	{"Conversation", func(e *env.Env) screen.Screen { return conversation.New(e) }},
	{"Grammar", func(e *env.Env) screen.Screen { return grammar.New(e) }},
	{"Library", func(e *env.Env) screen.Screen { return library.New(e) }},
	{"Challenges", func(e *env.Env) screen.Screen { return challenges.New(e) }},
	{"Community", func(e *env.Env) screen.Screen { return community.New(e) }},
	{"Settings", func(e *env.Env) screen.Screen { return settings.New(e) }},
	{"Quit", nil},
}

type focus int

const (
	focusLessons focus = iota
	focusActions
)

// Screen is the dashboard.
type Screen struct {
	env          *env.Env
	stats        *resource.StatsResource
	lessons      *resource.Lessons
	achievements *resource.Achievements

	focus  focus
	cursor int
	offset int
	action int
}

var (
	_ screen.Screen = (*Screen)(nil)
	_ screen.Named  = (*Screen)(nil)
)

// New creates the dashboard.
func New(e *env.Env) *Screen {
	return &Screen{
		env:          e,
		stats:        resource.NewStats(e.Backend, e.ResourceOptions()...),
		lessons:      resource.NewLessons(e.Backend, e.ResourceOptions()...),
		achievements: resource.NewAchievements(e.Backend, e.ResourceOptions()...),
	}
}

func (s *Screen) Name() string { return Name }

func (s *Screen) Title() string { return "Dashboard" }

func (s *Screen) Init() tea.Cmd { return s.request() }

func (s *Screen) request() tea.Cmd {
	uid, code := s.env.UserID(), s.env.Language()
	return tea.Batch(
		s.stats.Request(uid, uid != ""),
		s.lessons.Request(code, code != ""),
		s.achievements.Request(uid, true),
	)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.focus == focusActions {
		return layout.Hints("←→↑↓", "Choose", "Enter", "Open", "Tab", "Lessons", "R", "Refresh")
	}
	return layout.Hints("↑↓", "Choose", "Enter", "Start", "Tab", "Shortcuts", "R", "Refresh")
}

// Lessons returns the loaded lessons.
func (s *Screen) Lessons() []backend.Lesson { return s.lessons.Data }

// Cursor returns the highlighted lesson.
func (s *Screen) Cursor() int { return s.cursor }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resource.Result[string, resource.Stats]:
		s.stats.Apply(msg)
	case resource.Result[language.Code, []backend.Lesson]:
		if s.lessons.Apply(msg) {
			s.cursor, s.offset = 0, 0
		}
	case resource.Result[string, []prog.AchievementStatus]:
		s.achievements.Apply(msg)
	case screen.StatsChangedMsg:
		return s, tea.Batch(s.stats.Refresh(), s.achievements.Refresh())
	case screen.SessionMsg:
		return s, s.request()
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		s.focus = 1 - s.focus
		return s, nil
	case "r", "R":
		return s, tea.Batch(s.stats.Refresh(), s.lessons.Refresh(), s.achievements.Refresh())
	}
	if s.focus == focusActions {
		return s, s.handleActionKey(msg.String())
	}

	n := len(s.lessons.Data)
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < n-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < n {
			return s, router.Push(lessonscreen.New(s.env, s.lessons.Data[s.cursor]))
		}
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+maxLessons {
		s.offset = s.cursor - maxLessons + 1
	}
	return s, nil
}

func (s *Screen) handleActionKey(key string) tea.Cmd {
	switch key {
	case "left", "h", "up", "k":
		if s.action > 0 {
			s.action--
		}
	case "right", "l", "down", "j":
		if s.action < len(actions)-1 {
			s.action++
		}
	case "enter":
		a := actions[s.action]
		if a.open == nil {
			return tea.Quit
		}
		return router.Push(a.open(s.env))
	}
	return nil
}

func (s *Screen) View(width, height int) string {
	termHeight := height + 8
	compact := termHeight < 34 || width < 100
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, s.renderGreeting(cw))
	sections = append(sections, renderStatsBar(s.stats.Data, cw, compact))

	mood := MoodFor(s.stats.Data.TodayXP, s.stats.Data.CurrentStreak, prog.DailyGoal)
	if !compact {
		sections = append(sections, renderMascotBox(mood, cw))
	}
	if p := s.env.Profile(); p != nil && p.IsGuest {
		sections = append(sections, renderGuestNote(cw))
	}

	sections = append(sections, s.renderLessons(cw))
	if badges := s.renderBadges(); badges != "" {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(badges))
	}

	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}
	if compact {
		sections = append(sections, renderActionsCompact(labels, s.action, s.focus == focusActions, cw))
	} else {
		sections = append(sections, renderActions(labels, s.action, s.focus == focusActions, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *Screen) renderGreeting(cw int) string {
	name := "learner"
	code := s.env.Language()
	if p := s.env.Profile(); p != nil && p.Name != "" {
		name = p.Name
	}
	greeting := "Habari"
	if info, ok := language.Lookup(code); ok && info.Greeting != "" {
		greeting = info.Greeting
	}
	line := theme.Title.Render(fmt.Sprintf("%s, %s!", greeting, name))
	sub := theme.Subtitle.Render("Learning " + code.Label())

	today := s.stats.Data.TodayXP
	ring := components.ProgressRing("Today", today, prog.DailyGoal, prog.GoalPercent(today, prog.DailyGoal))
	left := lipgloss.NewStyle().Width(cw - lipgloss.Width(ring) - 2).Render(line + "\n" + sub)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, "  ", ring)
}

func (s *Screen) renderLessons(cw int) string {
	var body string
	switch {
	case s.lessons.Err != "":
		body = theme.ErrorText.Render(s.lessons.Err) + "\n" + theme.Hint.Render("Press r to try again.")
	case s.lessons.Loading && len(s.lessons.Data) == 0:
		body = theme.Pending.Render("Loading lessons…")
	case len(s.lessons.Data) == 0:
		body = theme.Hint.Render("No lessons for " + s.env.Language().Label() + " yet.")
	default:
		var b strings.Builder
		end := min(s.offset+maxLessons, len(s.lessons.Data))
		for i := s.offset; i < end; i++ {
			l := s.lessons.Data[i]
			pointer, title := "  ", theme.Body.Render(l.Title)
			if i == s.cursor && s.focus == focusLessons {
				pointer, title = theme.Selected.Render("▸ "), theme.Selected.Render(l.Title)
			}
			meta := theme.Hint.Render(fmt.Sprintf("L%d · +%d XP", l.Level, l.XPReward))
			b.WriteString(pointer + title + "  " + meta + "\n")
		}
		if more := len(s.lessons.Data) - end; more > 0 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", more)))
		}
		body = strings.TrimRight(b.String(), "\n")
	}
	return components.Card("Lessons", body, cw)
}

func (s *Screen) renderBadges() string {
	var earned []string
	for _, a := range s.achievements.Data {
		if a.Earned {
			earned = append(earned, components.Badge(a.Icon+" "+a.Name, true))
		}
	}
	if len(earned) == 0 {
		return ""
	}
	if len(earned) > 3 {
		earned = earned[len(earned)-3:]
	}
	return theme.Hint.Render("Recent badges  ") + strings.Join(earned, " ")
}
