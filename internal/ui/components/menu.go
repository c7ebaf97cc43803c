package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	if m.Selected = m.step(1); m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j":
		m.Selected = m.step(1)
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}

	return m, nil
}

// step returns the next enabled index in direction dir, or the current
// one when there is none.
func (m Menu) step(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

// Current returns the highlighted item, if any.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

var (
	menuCursor   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	menuItem     = lipgloss.NewStyle().Foreground(theme.Text)
	menuDisabled = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// View renders the menu, one item per line, with the cursor on the
// selected item and the item's Detail dimmed after its label.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		prefix, style := "    ", menuItem
		switch {
		case item.Disabled:
			style = menuDisabled
		case i == m.Selected:
			prefix, style = "  ▸ ", menuCursor
		}
		b.WriteString(style.Render(prefix + item.Label))
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
