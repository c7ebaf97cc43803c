// Package challenges lists the daily and weekly challenges and the
// community competitions.
package challenges

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Screen shows challenges, the learner's language first.
type Screen struct {
	env   *env.Env
	daily []content.Challenge
}

var _ screen.Screen = (*Screen)(nil)

// New creates the challenges screen.
func New(e *env.Env) *Screen {
	return &Screen{env: e, daily: content.ChallengesFor(e.Language())}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Challenges" }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }

func difficultyStyle(d content.Difficulty) lipgloss.Style {
	switch d {
	case content.Beginner:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case content.Intermediate:
		return lipgloss.NewStyle().Foreground(theme.Warning)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var daily strings.Builder
	done := 0
	for _, c := range s.daily {
		mark := theme.Hint.Render("○")
		if c.Completed {
			mark = theme.Correct.Render("✓")
			done++
		}
		daily.WriteString(fmt.Sprintf("%s %s  %s  %s\n", mark,
			theme.Body.Render(c.Title),
			difficultyStyle(c.Difficulty).Render(string(c.Difficulty)),
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("+%d XP", c.XPReward))))
		daily.WriteString("  " + theme.Hint.Render(components.Truncate(c.Description, cw-6)) + "\n")
	}

	w := content.Weekly()
	weekly := theme.Body.Render(w.Description) + "\n\n" +
		components.NewProgressBar(fmt.Sprintf("%d/%d", w.Progress, w.Total), w.Percent(), true, cw-4).View() + "\n" +
		theme.Hint.Render(fmt.Sprintf("%d days left · %d participants · +%d XP", w.DaysLeft, w.Participants, w.XPReward))

	var comps strings.Builder
	for _, c := range content.Competitions() {
		state := theme.Hint.Render("upcoming")
		if c.Active {
			state = lipgloss.NewStyle().Foreground(theme.Success).Render("live")
		}
		comps.WriteString(fmt.Sprintf("%s  %s\n", theme.Body.Render(c.Title), state))
		comps.WriteString("  " + theme.Hint.Render(c.Description) + "\n")
		comps.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render("Prize: "+c.Prize) + "\n")
	}

	sections := []string{
		components.Card(fmt.Sprintf("Today's challenges  %d/%d", done, len(s.daily)), strings.TrimRight(daily.String(), "\n"), cw),
		components.Card(w.Title, weekly, cw),
		components.Card("Competitions", strings.TrimRight(comps.String(), "\n"), cw),
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}
