// Package grammar is the grammar guide: topics for the learner's
// language, quick rules and practice sets.
package grammar

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Section is one tab of the guide.
type Section int

const (
	SectionTopics Section = iota
	SectionRules
	SectionExercises
)

var sectionNames = []string{"Topics", "Quick rules", "Exercises"}

// Screen browses grammar content.
type Screen struct {
	env      *env.Env
	code     language.Code
	section  Section
	topics   []content.GrammarTopic
	rules    []content.GrammarRule
	cursor   int
	expanded int
}

var _ screen.Screen = (*Screen)(nil)

// New creates the grammar screen.
func New(e *env.Env) *Screen {
	code := e.Language()
	s := &Screen{env: e, code: code, topics: content.Grammar(code), expanded: -1}
	for _, r := range content.GrammarRules() {
		if r.Language == code {
			s.rules = append(s.rules, r)
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Grammar" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return layout.Hints("Tab", "Section", "↑↓", "Move", "Enter", "Concepts", "Esc", "Back")
}

// Section returns the open tab.
func (s *Screen) Section() Section { return s.section }

// Expanded returns the topic whose concepts are showing, or -1.
func (s *Screen) Expanded() int { return s.expanded }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "tab":
		s.section = (s.section + 1) % Section(len(sectionNames))
		s.cursor = 0
	case "shift+tab":
		s.section = (s.section + Section(len(sectionNames)) - 1) % Section(len(sectionNames))
		s.cursor = 0
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < s.rows()-1 {
			s.cursor++
		}
	case "enter":
		if s.section != SectionTopics || s.cursor >= len(s.topics) {
			break
		}
		switch {
		case !s.topics[s.cursor].Unlocked:
		case s.expanded == s.cursor:
			s.expanded = -1
		default:
			s.expanded = s.cursor
		}
	}
	return s, nil
}

func (s *Screen) rows() int {
	switch s.section {
	case SectionTopics:
		return len(s.topics)
	case SectionRules:
		return len(s.rules)
	}
	return len(content.Exercises())
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	tabs := make([]string, len(sectionNames))
	for i, n := range sectionNames {
		if Section(i) == s.section {
			tabs[i] = theme.Selected.Render("[" + n + "]")
		} else {
			tabs[i] = theme.Hint.Render(" " + n + " ")
		}
	}
	header := strings.Join(tabs, "  ")

	var body string
	switch s.section {
	case SectionTopics:
		body = s.renderTopics(cw)
	case SectionRules:
		body = s.renderRules(cw)
	default:
		body = s.renderExercises()
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(s.code.Label()+" grammar", header+"\n\n"+body, cw))
}

func (s *Screen) pointer(i int) string {
	if i == s.cursor {
		return theme.Selected.Render("▸ ")
	}
	return "  "
}

func (s *Screen) renderTopics(cw int) string {
	if len(s.topics) == 0 {
		return theme.Hint.Render("No grammar topics for this language yet.")
	}
	var b strings.Builder
	for i, t := range s.topics {
		title := theme.Body.Render(t.Title)
		switch {
		case !t.Unlocked:
			title = theme.Hint.Render("🔒 " + t.Title)
		case t.Done():
			title = theme.Correct.Render("✓ ") + title
		}
		b.WriteString(s.pointer(i) + title + "  " + theme.Hint.Render(string(t.Difficulty)) + "\n")
		b.WriteString("    " + theme.Hint.Render(t.Description) + "\n")
		if t.Unlocked {
			pct := 0.0
			if t.Lessons > 0 {
				pct = float64(t.Completed) / float64(t.Lessons)
			}
			bar := components.NewProgressBar(fmt.Sprintf("%d/%d", t.Completed, t.Lessons), pct, false, cw-12)
			b.WriteString("    " + bar.View() + "\n")
		}
		if i == s.expanded {
			for _, c := range t.Concepts {
				b.WriteString("      " + lipgloss.NewStyle().Foreground(theme.Secondary).Render("• "+c) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Screen) renderRules(cw int) string {
	if len(s.rules) == 0 {
		return theme.Hint.Render("No quick rules for this language yet.")
	}
	var b strings.Builder
	for i, r := range s.rules {
		b.WriteString(s.pointer(i) + theme.Heading.Render(r.Rule) + "\n")
		b.WriteString("    " + theme.Body.Render(components.Truncate(r.Explanation, cw-8)) + "\n")
		b.WriteString("    " + lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true).Render(r.Example) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Screen) renderExercises() string {
	var b strings.Builder
	for i, ex := range content.Exercises() {
		b.WriteString(fmt.Sprintf("%s%s  %s\n", s.pointer(i), theme.Body.Render(ex.Title), theme.Hint.Render(ex.Kind)))
		b.WriteString("    " + theme.Hint.Render(fmt.Sprintf("%s · %d questions · %d min", ex.Difficulty, ex.Questions, ex.Minutes)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
