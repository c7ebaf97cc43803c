// Package library browses the cultural library: proverbs, stories,
// traditions and history.
package library

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

// Screen lists library items with search and a type filter.
type Screen struct {
	env     *env.Env
	all     []content.LibraryItem
	search  components.TextInput
	typeIdx int // 0 is every type
	cursor  int
	detail  *content.LibraryItem
}

var (
	_ screen.Screen     = (*Screen)(nil)
	_ screen.EscHandler = (*Screen)(nil)
)

// New creates the library for the learner's language.
func New(e *env.Env) *Screen {
	search := components.NewTextInput("", "Search proverbs, stories, tags...", 60)
	search.Blur()
	return &Screen{env: e, all: content.LibraryFor(e.Language()), search: search}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Cultural Library" }

func (s *Screen) HandlesEsc() bool { return s.detail != nil || s.search.Focused() }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.detail != nil:
		return layout.Hints("Esc", "Close")
	case s.search.Focused():
		return layout.Hints("Enter", "Done", "Esc", "Clear")
	}
	return layout.Hints("/", "Search", "Tab", "Filter", "Enter", "Open", "Esc", "Back")
}

func (s *Screen) typeFilter() content.ItemType {
	if s.typeIdx == 0 {
		return ""
	}
	return content.ItemTypes[s.typeIdx-1]
}

// Visible returns the items passing the current search and filter.
func (s *Screen) Visible() []content.LibraryItem {
	return content.SearchLibrary(s.all, s.search.Value(), s.typeFilter())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	key := kmsg.String()

	if s.detail != nil {
		if key == "esc" || key == "enter" {
			s.detail = nil
		}
		return s, nil
	}

	if s.search.Focused() {
		switch key {
		case "esc":
			s.search.Reset()
			s.search.Blur()
		case "enter":
			s.search.Blur()
		default:
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			s.cursor = 0
			return s, cmd
		}
		return s, nil
	}

	items := s.Visible()
	switch key {
	case "/":
		return s, s.search.Focus()
	case "tab":
		s.typeIdx = (s.typeIdx + 1) % (len(content.ItemTypes) + 1)
		s.cursor = 0
	case "shift+tab":
		s.typeIdx = (s.typeIdx + len(content.ItemTypes)) % (len(content.ItemTypes) + 1)
		s.cursor = 0
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(items)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(items) {
			it := items[s.cursor]
			s.detail = &it
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.detail != nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, renderDetail(*s.detail, cw))
	}

	tabs := []string{"All"}
	for _, t := range content.ItemTypes {
		tabs = append(tabs, strings.ToUpper(string(t[:1]))+string(t[1:]))
	}
	for i := range tabs {
		if i == s.typeIdx {
			tabs[i] = theme.ButtonActive.Render(tabs[i])
		} else {
			tabs[i] = theme.Hint.Render(" " + tabs[i] + " ")
		}
	}

	var b strings.Builder
	b.WriteString(s.search.View() + "\n\n")
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	items := s.Visible()
	if len(items) == 0 {
		b.WriteString(theme.Hint.Render("Nothing matches your search."))
	}
	for i, it := range items {
		title := components.Truncate(it.Title, cw-24)
		line := fmt.Sprintf("%-10s %s", it.Type, title)
		if it.Origin != "" {
			line += theme.Hint.Render("  " + it.Origin)
		}
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(theme.Unselected.Render("  "+line) + "\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card("", b.String(), cw))
}

func renderDetail(it content.LibraryItem, cw int) string {
	body := lipgloss.NewStyle().Width(cw - 4).Foreground(theme.Secondary).Italic(true).Render(it.Content) + "\n\n"
	if it.Meaning != "" {
		body += theme.Heading.Render("Meaning") + "\n" +
			lipgloss.NewStyle().Width(cw-4).Foreground(theme.Text).Render(it.Meaning) + "\n\n"
	}
	meta := []string{string(it.Type)}
	if it.Origin != "" {
		meta = append(meta, it.Origin)
	}
	if it.Difficulty != "" {
		meta = append(meta, string(it.Difficulty))
	}
	body += theme.Hint.Render(strings.Join(meta, " · "))
	if len(it.Tags) > 0 {
		body += "\n" + theme.Hint.Render("#"+strings.Join(it.Tags, " #"))
	}
	return components.Card(it.Title, body, cw)
}
