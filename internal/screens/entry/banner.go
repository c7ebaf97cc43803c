package entry

import (
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

const bannerArt = `
 ██╗     ██╗   ██╗ ██████╗ ██╗  ██╗ █████╗
 ██║     ██║   ██║██╔════╝ ██║  ██║██╔══██╗
 ██║     ██║   ██║██║  ███╗███████║███████║
 ██║     ██║   ██║██║   ██║██╔══██║██╔══██║
 ███████╗╚██████╔╝╚██████╔╝██║  ██║██║  ██║
 ╚══════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝`

const bannerCompact = "L U G H A"

// flagStripe is drawn under the banner in the Kenyan flag colors.
func flagStripe(width int) string {
	seg := width / 4
	if seg < 2 {
		seg = 2
	}
	block := func(c lipgloss.Style) string {
		s := ""
		for i := 0; i < seg; i++ {
			s += "▀"
		}
		return c.Render(s)
	}
	return block(lipgloss.NewStyle().Foreground(theme.BgCard)) +
		block(lipgloss.NewStyle().Foreground(theme.Accent)) +
		block(lipgloss.NewStyle().Foreground(theme.Primary)) +
		block(lipgloss.NewStyle().Foreground(theme.Text))
}

// RenderBanner returns the LUGHA banner in the primary color, falling
// back to a compact form for terminals narrower than 48 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt) + "\n" + flagStripe(44)
}
