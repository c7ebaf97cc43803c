package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// ContentWidth returns the inner width used for every screen section so
// that stacked cards line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps body in a rounded border at width cw, with an optional
// bold title line.
func Card(title, body string, cw int) string {
	if title != "" {
		body = theme.Heading.Render(title) + "\n" + body
	}
	return theme.Card.Width(cw).Render(body)
}

// StatCard is a small card showing one labelled number.
func StatCard(label, value string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Render(theme.XP.Bold(true).Render(value) +
			"\n" + theme.Hint.Render(label))
}

// StatRow lays stat cards side by side, splitting cw evenly.
func StatRow(cw int, pairs ...[2]string) string {
	if len(pairs) == 0 {
		return ""
	}
	w := cw/len(pairs) - 1
	cards := make([]string, 0, len(pairs))
	for _, p := range pairs {
		cards = append(cards, StatCard(p[0], p[1], w))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Centered centers every line of s within width and height.
func Centered(s string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}

// Truncate cuts s to at most n display cells, adding an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return strings.TrimRight(string(r), " ") + "…"
}
