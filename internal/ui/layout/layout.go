package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Hints builds key hints from key/description pairs.
func Hints(pairs ...string) []KeyHint {
	out := make([]KeyHint, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, KeyHint{Key: pairs[i], Description: pairs[i+1]})
	}
	return out
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the available height for screen content.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-HeaderHeight-FooterHeight, 0)
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Karibu! This window is a little small.\n\nLugha needs at least %d x %d\nto show lessons.\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderStats is what the header shows on the right. A zero value with
// Guest unset renders nothing there.
type HeaderStats struct {
	XP     int
	Streak int
	Guest  bool
	Shown  bool
}

var (
	brandStyle  = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(theme.TextDim)
	barStyle    = lipgloss.NewStyle().
			Background(theme.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border)
)

func (s HeaderStats) render() string {
	switch {
	case s.Guest:
		return dimStyle.Render("guest")
	case s.Shown:
		return theme.XP.Render(fmt.Sprintf("◆ %d XP", s.XP)) + "   " +
			theme.Streak.Render(fmt.Sprintf("★ %d day", s.Streak))
	}
	return ""
}

// RenderHeader renders the top bar: brand on the left, the screen title
// centered and the learner's stats on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := brandStyle.Render("  Lugha")
	center := theme.Body.Render(title)
	right := stats.render()

	inner := max(width-4, 0) // border + padding
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	row := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return barStyle.Width(width).Render(row)
}

// RenderToast renders a one-line notice centered in width.
func RenderToast(msg string, width int) string {
	if msg == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Toast.Render(msg))
}

// RenderFooter renders the key hints bar.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := theme.Heading
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+dimStyle.Render(h.Description))
	}
	return barStyle.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame composes the full frame: header, content, an optional
// toast line and the footer.
func RenderFrame(header, content, toast, footer string, width, height int) string {
	if toast != "" {
		footer = toast + "\n" + footer
	}
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)

	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-headerHeight-footerHeight, 0)).
		Render(content)

	return header + "\n" + body + "\n" + footer
}
