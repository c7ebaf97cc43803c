package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := filledCells(p.Percent, barWidth)
	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += theme.Hint.Render(fmt.Sprintf("  %d%%", percent(p.Percent)))
	}

	return result
}

func filledCells(pct float64, width int) int {
	n := int(float64(width) * pct)
	if n > width {
		return width
	}
	if n < 0 {
		return 0
	}
	return n
}

func percent(p float64) int {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 100
	}
	return int(p * 100)
}

// ringGlyphs steps a quarter circle at a time.
var ringGlyphs = []string{"○", "◔", "◑", "◕", "●"}

// ProgressRing renders a compact goal indicator: a filling circle, the
// percentage and a value/goal caption.
func ProgressRing(label string, value, goal int, pct float64) string {
	g := ringGlyphs[filledCells(pct, len(ringGlyphs)-1)]
	color := theme.Secondary
	if pct >= 1 {
		color = theme.Success
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%s %d%%", g, percent(pct))) +
		"  " + theme.Body.Render(label) +
		"  " + theme.Hint.Render(fmt.Sprintf("%d / %d XP", value, goal))
}

// StreakCounter renders the day streak.
func StreakCounter(days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	style := theme.Streak.Bold(true)
	if days == 0 {
		style = lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	return style.Render(fmt.Sprintf("★ %d %s", days, unit))
}

// Badge renders an achievement chip.
func Badge(name string, earned bool) string {
	if earned {
		return theme.BadgeEarned.Render("✦ " + name)
	}
	return theme.BadgeLocked.Render("· " + name)
}

// ChartDay is one bar of WeeklyChart.
type ChartDay struct {
	Day time.Time
	XP  int
}

// WeeklyChart renders vertical bars of daily XP with weekday initials.
func WeeklyChart(days []ChartDay, height int) string {
	if len(days) == 0 {
		return theme.Hint.Render("No activity yet")
	}
	if height < 1 {
		height = 1
	}
	peak := 0
	for _, d := range days {
		if d.XP > peak {
			peak = d.XP
		}
	}

	rows := make([]string, 0, height+2)
	for level := height; level >= 1; level-- {
		var b strings.Builder
		for _, d := range days {
			cell := "    "
			if d.XP > 0 && d.XP*height >= level*peak {
				cell = theme.ProgressFilled.Render("   ") + " "
			}
			b.WriteString(cell)
		}
		rows = append(rows, b.String())
	}

	var labels, values strings.Builder
	for _, d := range days {
		labels.WriteString(fmt.Sprintf("%-4s", d.Day.Format("Mon")[:2]))
		values.WriteString(fmt.Sprintf("%-4s", compact(d.XP)))
	}
	rows = append(rows, theme.Hint.Render(labels.String()), theme.Hint.Render(values.String()))
	return strings.Join(rows, "\n")
}

// compact keeps bar captions within three cells.
func compact(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%dk", n/1000)
	}
	return fmt.Sprintf("%d", n)
}
