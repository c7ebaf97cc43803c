package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
)

// ToastMsg asks the app to show a transient notice.
type ToastMsg struct {
	Text string
}

// Toast wraps text as a command.
func Toast(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text} }
}

// SessionMsg is broadcast to every screen when the session store
// publishes a change.
type SessionMsg struct {
	Snapshot session.Snapshot
}

// StatsChangedMsg is broadcast after something the learner did may have
// changed their XP, streak or achievements.
type StatsChangedMsg struct{}

// StatsChanged wraps StatsChangedMsg as a command.
func StatsChanged() tea.Cmd {
	return func() tea.Msg { return StatsChangedMsg{} }
}

// Route names used by the app guard.
const (
	NameEntry      = "entry"
	NameAuth       = "auth"
	NameOnboarding = "onboarding"
)
