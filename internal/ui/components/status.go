package components

import (
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// LoadingView renders a dim centered line.
func LoadingView(width, height int, text string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(text))
}

// ErrorView renders a centered error with an optional hint beneath.
func ErrorView(width, height int, msg, hint string) string {
	s := theme.ErrorText.Render(msg)
	if hint != "" {
		s += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}

// EmptyView renders a centered message for a list with nothing in it.
func EmptyView(width, height int, msg, hint string) string {
	s := theme.Body.Render(msg)
	if hint != "" {
		s += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
