package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Mark is how one option is flagged after a selection.
type Mark int

const (
	MarkNone Mark = iota
	MarkPending
	MarkCorrect
	MarkWrong
	MarkUnknown
)

// MultiChoice is a multiple-choice selector. It never knows the answer
// key: marks are set by the caller once the verdict arrives.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	Locked   bool
	Marks    []Mark
}

// NewMultiChoice creates a multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Marks:    make([]Mark, len(options)),
	}
}

// ChooseMsg reports the option picked with enter or a number key.
type ChooseMsg struct{ Index int }

// Update moves the cursor and emits ChooseMsg on a pick.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		return m, choose(m.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			m.Cursor = int(key[0] - '1')
			return m, choose(m.Cursor)
		}
	}
	return m, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChooseMsg{Index: i} }
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	s := theme.Heading.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i), opt)

		mark := MarkNone
		if i < len(m.Marks) {
			mark = m.Marks[i]
		}
		switch {
		case mark == MarkPending:
			s += theme.Pending.Render(line+"  checking...") + "\n"
		case mark == MarkCorrect:
			s += theme.Correct.Render(line+"  ✓") + "\n"
		case mark == MarkWrong:
			s += theme.Incorrect.Render(line+"  ✗") + "\n"
		case mark == MarkUnknown:
			s += theme.Pending.Render(line+"  ?") + "\n"
		case m.Locked:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}
