// Package leaderboard shows the public ranking.
package leaderboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/progress"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Screen lists the top learners.
type Screen struct {
	env    *env.Env
	board  *resource.Leaderboard
	offset int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the leaderboard screen.
func New(e *env.Env) *Screen {
	return &Screen{env: e, board: resource.NewLeaderboard(e.Backend, e.ResourceOptions()...)}
}

func (s *Screen) Init() tea.Cmd { return s.board.Request(s.env.Limit(), true) }

func (s *Screen) Title() string { return "Leaderboard" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.board.Err != "" {
		return layout.Hints("R", "Retry", "Esc", "Back")
	}
	return layout.Hints("↑↓", "Scroll", "R", "Refresh", "Esc", "Back")
}

// Entries returns the loaded rows.
func (s *Screen) Entries() []backend.LeaderboardEntry { return s.board.Data }

// Err returns the load error shown, if any.
func (s *Screen) Err() string { return s.board.Err }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resource.Result[int, []backend.LeaderboardEntry]:
		s.board.Apply(msg)
	case screen.StatsChangedMsg:
		return s, s.board.Refresh()
	case tea.KeyPressMsg:
		switch msg.String() {
		case "r", "R":
			if s.board.Loading {
				return s, nil
			}
			return s, s.board.Refresh()
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.board.Data)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	switch {
	case s.board.Err != "":
		return components.ErrorView(width, height, s.board.Err, "Press R to try again.")
	case s.board.Loading && len(s.board.Data) == 0:
		return components.LoadingView(width, height, "Loading leaderboard...")
	case len(s.board.Data) == 0:
		return components.EmptyView(width, height, "No learners ranked yet.", "Finish a lesson to be the first!")
	}

	cw := components.ContentWidth(width)
	var sections []string

	if self, ok := progress.FindSelf(s.board.Data, s.env.UserID()); ok {
		body := fmt.Sprintf("%s   %s   %s",
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(fmt.Sprintf("#%d", self.Rank)),
			theme.Body.Render(fmt.Sprintf("%d XP", self.TotalXP)),
			components.StreakCounter(self.CurrentStreak))
		sections = append(sections, components.Card("Your rank", body, cw))
	}

	rows := height - 8
	if rows < 3 {
		rows = 3
	}
	end := s.offset + rows
	if end > len(s.board.Data) {
		end = len(s.board.Data)
	}
	var lines []string
	for _, entry := range s.board.Data[s.offset:end] {
		lines = append(lines, s.renderRow(entry, cw-4))
	}
	sections = append(sections, components.Card("Top learners", strings.Join(lines, "\n"), cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, strings.Join(sections, "\n"))
}

func (s *Screen) renderRow(e backend.LeaderboardEntry, width int) string {
	rank := fmt.Sprintf("%3d", e.Rank)
	switch e.Rank {
	case 1:
		rank = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(" 🥇")
	case 2:
		rank = lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(" 🥈")
	case 3:
		rank = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(" 🥉")
	}

	initials := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Bold(true).
		Width(4).
		Align(lipgloss.Center).
		Render(progress.Initials(e.Name))

	right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d XP", e.TotalXP)) +
		"  " + components.StreakCounter(e.CurrentStreak)
	nameWidth := width - lipgloss.Width(rank) - lipgloss.Width(initials) - lipgloss.Width(right) - 4
	name := components.Truncate(e.Name, nameWidth)

	style := theme.Body
	if e.UserID != "" && e.UserID == s.env.UserID() {
		style = theme.Selected
		name += " (you)"
	}
	pad := nameWidth - lipgloss.Width(name)
	if pad < 1 {
		pad = 1
	}
	return rank + " " + initials + " " + style.Render(name) + strings.Repeat(" ", pad) + right
}
