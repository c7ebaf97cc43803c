package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/resource"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// buttonWidth is the fixed width for quick action buttons.
const buttonWidth = 18

// renderStatsBar renders XP, streak and level in a double-bordered box.
func renderStatsBar(st resource.Stats, cw int, compact bool) string {
	xp := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	streak := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	level := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			xp.Render(fmt.Sprintf("★%d", st.TotalXP)),
			streak.Render(fmt.Sprintf("🔥%d", st.CurrentStreak)),
			level.Render(fmt.Sprintf("L%d", st.Level)))
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			xp.Render(fmt.Sprintf("★ %d XP", st.TotalXP)),
			streak.Render(fmt.Sprintf("🔥 %d DAY STREAK", st.CurrentStreak)),
			level.Render(fmt.Sprintf("LEVEL %d", st.Level)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderActions lays the quick actions out as a grid of buttons. The
// selected button is highlighted only while the grid has focus.
func renderActions(labels []string, selected int, focused bool, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
	active := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Secondary).
		BorderForeground(theme.Secondary)

	perRow := max(1, cw/(buttonWidth+2))
	var rows []string
	for start := 0; start < len(labels); start += perRow {
		end := min(start+perRow, len(labels))
		var row []string
		for i := start; i < end; i++ {
			if focused && i == selected {
				row = append(row, active.Render(labels[i]))
			} else {
				row = append(row, base.Foreground(theme.Text).Render(labels[i]))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(rows, "\n"))
}

// renderActionsCompact renders the quick actions as plain lines for
// terminals too small for bordered buttons.
func renderActionsCompact(labels []string, selected int, focused bool, cw int) string {
	var lines []string
	for i, label := range labels {
		if focused && i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Secondary).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, theme.Body.Render("   "+label))
		}
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// renderMascotBox centers the mascot and its line at content width.
func renderMascotBox(mood Mood, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(mood) + "\n" + theme.Hint.Render(moodLine(mood)))
}

// renderGuestNote nudges guests towards an account.
func renderGuestNote(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Width(cw).
		Align(lipgloss.Center).
		Render("Guest mode: progress stays on this device. Leave guest mode in Settings to create an account.")
}

// renderFrame wraps content in a double-border frame, centered in the
// given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
