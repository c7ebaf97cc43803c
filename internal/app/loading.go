package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
)

const nameLoading = "loading"

// loadingScreen holds the stack while the stored session is restored.
type loadingScreen struct{}

func (loadingScreen) Init() tea.Cmd                             { return nil }
func (l loadingScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return l, nil }
func (loadingScreen) Title() string                             { return "Lugha" }
func (loadingScreen) Name() string                              { return nameLoading }

func (loadingScreen) View(width, height int) string {
	return components.LoadingView(width, height, "Restoring your session…")
}
