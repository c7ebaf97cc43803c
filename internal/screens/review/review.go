// Package review is the flashcard review queue.
package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Screen flips through the learner's review items, most urgent first.
type Screen struct {
	env     *env.Env
	items   []content.ReviewItem
	index   int
	flipped bool
	known   map[string]bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the review screen.
func New(e *env.Env) *Screen {
	return &Screen{env: e, items: content.ReviewFor(e.Language()), known: map[string]bool{}}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Review" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.flipped {
		return layout.Hints("Y", "Knew it", "N", "Again", "←→", "Move", "Esc", "Back")
	}
	return layout.Hints("Space", "Flip", "←→", "Move", "Esc", "Back")
}

// Flipped reports whether the translation is showing.
func (s *Screen) Flipped() bool { return s.flipped }

// Index returns the card shown.
func (s *Screen) Index() int { return s.index }

// Known counts cards marked as known this session.
func (s *Screen) Known() int { return len(s.known) }

func (s *Screen) move(delta int) {
	if len(s.items) == 0 {
		return
	}
	s.index = (s.index + delta + len(s.items)) % len(s.items)
	s.flipped = false
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.items) == 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "space", "enter":
		s.flipped = !s.flipped
	case "right", "l":
		s.move(1)
	case "left", "h":
		s.move(-1)
	case "y", "Y":
		if s.flipped {
			s.known[s.items[s.index].ID] = true
			s.move(1)
		}
	case "n", "N":
		if s.flipped {
			delete(s.known, s.items[s.index].ID)
			s.move(1)
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if len(s.items) == 0 {
		return components.EmptyView(width, height, "Nothing to review yet.", "Finish a lesson and come back later.")
	}
	cw := components.ContentWidth(width)
	it := s.items[s.index]

	status := string(it.Status)
	switch it.Status {
	case content.StatusOverdue:
		status = theme.Incorrect.Render(status)
	case content.StatusDue:
		status = lipgloss.NewStyle().Foreground(theme.Warning).Render(status)
	default:
		status = theme.Hint.Render(status)
	}

	face := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(it.Content)
	if s.flipped {
		face += "\n\n" + theme.Body.Render(it.Translation)
	} else {
		face += "\n\n" + theme.Hint.Render("press space to reveal")
	}
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(cw).
		Height(9).
		Align(lipgloss.Center, lipgloss.Center).
		Render(face)

	info := theme.Hint.Render(fmt.Sprintf("Card %d of %d · ", s.index+1, len(s.items))) + status +
		theme.Hint.Render(fmt.Sprintf(" · next in %s · %d due · %d known", it.Interval, content.DueCount(s.items), len(s.known)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join([]string{card, info}, "\n"))
}
