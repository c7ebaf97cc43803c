package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that must drop in-flight work when
// they leave the stack.
type Leaver interface {
	Leave()
}

// Named is implemented by screens that the app guards by route. Name is
// stable, unlike Title.
type Named interface {
	Name() string
}

// EscHandler is implemented by screens that use Esc themselves. While
// HandlesEsc reports true the app forwards Esc instead of popping.
type EscHandler interface {
	HandlesEsc() bool
}
