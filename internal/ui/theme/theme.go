// Package theme holds the palette and shared lipgloss styles.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette, after the Kenyan flag on a dark background.
var (
	Primary   = lipgloss.Color("#16A34A") // flag green
	Secondary = lipgloss.Color("#F59E0B") // savanna amber
	Accent    = lipgloss.Color("#DC2626") // flag red
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Warning   = lipgloss.Color("#FBBF24")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0C0A09")
	BgCard    = lipgloss.Color("#1C1917")
	Border    = lipgloss.Color("#44403C")
)

// Text styles.
var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle  = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Heading   = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Body      = lipgloss.NewStyle().Foreground(Text)
	Hint      = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
)

// Learner stats shown in the header and on the dashboard.
var (
	XP     = lipgloss.NewStyle().Foreground(Secondary)
	Streak = lipgloss.NewStyle().Foreground(Accent)
)

// Answer and selection states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Pending    = lipgloss.NewStyle().Foreground(Warning).Italic(true)
)

// Boxes and widgets.
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Toast = lipgloss.NewStyle().Foreground(BgDark).Background(Secondary).Bold(true).Padding(0, 2)

	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)

	// Badges mark achievements on the progress screen.
	BadgeEarned = lipgloss.NewStyle().Foreground(BgDark).Background(Secondary).Bold(true).Padding(0, 1)
	BadgeLocked = lipgloss.NewStyle().Foreground(TextDim).Background(BgCard).Padding(0, 1)
)
