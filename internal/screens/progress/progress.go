// Package progress shows the learner's level, goals, weekly activity
// and achievements.
package progress

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	prog "github.com/eltonarunga/lugha-learner-kenya/internal/progress"
	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// scrollSlack covers the stat cards above the achievement list.
const scrollSlack = 24

// Screen is the progress overview.
type Screen struct {
	env          *env.Env
	stats        *resource.StatsResource
	achievements *resource.Achievements
	scroll       int
}

var _ screen.Screen = (*Screen)(nil)

// New creates the progress screen.
func New(e *env.Env) *Screen {
	return &Screen{
		env:          e,
		stats:        resource.NewStats(e.Backend, e.ResourceOptions()...),
		achievements: resource.NewAchievements(e.Backend, e.ResourceOptions()...),
	}
}

func (s *Screen) Init() tea.Cmd {
	uid := s.env.UserID()
	return tea.Batch(
		s.stats.Request(uid, uid != ""),
		s.achievements.Request(uid, true),
	)
}

func (s *Screen) Title() string { return "Your Progress" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return layout.Hints("↑↓", "Scroll", "R", "Refresh", "Esc", "Back")
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resource.Result[string, resource.Stats]:
		s.stats.Apply(msg)
	case resource.Result[string, []prog.AchievementStatus]:
		s.achievements.Apply(msg)
	case screen.StatsChangedMsg:
		return s, tea.Batch(s.stats.Refresh(), s.achievements.Refresh())
	case screen.SessionMsg:
		uid := msg.Snapshot.UserID()
		return s, tea.Batch(s.stats.Request(uid, uid != ""), s.achievements.Request(uid, true))
	case tea.KeyPressMsg:
		switch msg.String() {
		case "r", "R":
			return s, tea.Batch(s.stats.Refresh(), s.achievements.Refresh())
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			if s.scroll < len(s.achievements.Data)+scrollSlack {
				s.scroll++
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	switch {
	case s.env.UserID() == "":
		sections = append(sections, components.Card("", theme.Hint.Render("Sign in to track XP, streaks and badges."), cw))
	case s.stats.Err != "":
		sections = append(sections, theme.ErrorText.Render(s.stats.Err))
	case s.stats.Loading && s.stats.Data.Level == 0:
		sections = append(sections, theme.Hint.Render("Loading your stats..."))
	default:
		sections = append(sections, renderStats(s.stats.Data, cw, s.env.Clock())...)
	}

	sections = append(sections, s.renderAchievements(cw))

	content := strings.Join(sections, "\n")
	lines := strings.Split(content, "\n")
	start := min(s.scroll, max(0, len(lines)-height))
	content = strings.Join(lines[start:], "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func renderStats(st resource.Stats, cw int, now time.Time) []string {
	level := fmt.Sprintf("Level %d", st.Level)
	toNext := fmt.Sprintf("%d XP to level %d", prog.XPToNextLevel(st.TotalXP), st.Level+1)
	bar := components.NewProgressBar(level, prog.LevelProgress(st.TotalXP), true, cw-4).View()

	grid := components.StatRow(cw,
		[2]string{"Total XP", fmt.Sprint(st.TotalXP)},
		[2]string{"Current streak", fmt.Sprint(st.CurrentStreak)},
		[2]string{"Longest streak", fmt.Sprint(st.LongestStreak)},
		[2]string{"Lessons done", fmt.Sprint(st.LessonsCompleted)},
	)

	goals := components.ProgressRing("Today", st.TodayXP, prog.DailyGoal, prog.GoalPercent(st.TodayXP, prog.DailyGoal)) + "\n" +
		components.ProgressRing("This week", st.WeeklyXP, prog.WeeklyGoal, prog.GoalPercent(st.WeeklyXP, prog.WeeklyGoal))

	return []string{
		components.Card("Level", bar+"\n"+theme.Hint.Render(toNext), cw),
		grid,
		components.Card("Goals", goals, cw),
		components.Card("Last 7 days", components.WeeklyChart(chartDays(st.Daily, now), 6), cw),
	}
}

// chartDays maps history rows to chart bars. Days the server did not
// report count as zero.
func chartDays(history []backend.DayXP, now time.Time) []components.ChartDay {
	byDay := make(map[string]int, len(history))
	for _, d := range history {
		byDay[d.Day] += d.XP
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]components.ChartDay, 0, resource.HistoryDays)
	for i := resource.HistoryDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		out = append(out, components.ChartDay{Day: day, XP: byDay[day.Format(time.DateOnly)]})
	}
	return out
}

func (s *Screen) renderAchievements(cw int) string {
	a := s.achievements
	switch {
	case a.Err != "":
		return components.Card("Achievements", theme.ErrorText.Render(a.Err), cw)
	case a.Loading && len(a.Data) == 0:
		return components.Card("Achievements", theme.Hint.Render("Loading..."), cw)
	case len(a.Data) == 0:
		return components.Card("Achievements", theme.Hint.Render("No achievements yet."), cw)
	}

	var lines []string
	for _, st := range a.Data {
		line := components.Badge(st.Name, st.Earned) + "  " + theme.Hint.Render(st.Description)
		if st.Earned && !st.EarnedAt.IsZero() {
			line += "  " + lipgloss.NewStyle().Foreground(theme.Success).Render(st.EarnedAt.Format("2 Jan"))
		}
		lines = append(lines, line)
	}
	title := fmt.Sprintf("Achievements  %d/%d", prog.EarnedCount(a.Data), len(a.Data))
	return components.Card(title, strings.Join(lines, "\n"), cw)
}
