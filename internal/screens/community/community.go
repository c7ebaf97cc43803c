// Package community shows discussion threads, study groups and practice
// partners.
package community

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

// Tab is a community section.
type Tab int

const (
	TabForum Tab = iota
	TabGroups
	TabPartners
)

var tabNames = []string{"Forum", "Study Groups", "Partners"}

// Screen is the community hub.
type Screen struct {
	env    *env.Env
	tab    Tab
	search components.TextInput
	cursor int
	open   bool
}

var (
	_ screen.Screen     = (*Screen)(nil)
	_ screen.EscHandler = (*Screen)(nil)
)

// New creates the community screen.
func New(e *env.Env) *Screen {
	search := components.NewTextInput("", "Search discussions...", 60)
	search.Blur()
	return &Screen{env: e, search: search}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Community" }

func (s *Screen) HandlesEsc() bool { return s.open || s.search.Focused() }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.search.Focused() {
		return layout.Hints("Enter", "Done", "Esc", "Clear")
	}
	if s.tab == TabForum {
		return layout.Hints("Tab", "Section", "/", "Search", "Enter", "Read", "Esc", "Back")
	}
	return layout.Hints("Tab", "Section", "↑↓", "Browse", "Esc", "Back")
}

// Tab returns the section shown.
func (s *Screen) Tab() Tab { return s.tab }

// Posts returns the threads matching the search.
func (s *Screen) Posts() []content.ForumPost {
	return content.SearchPosts(content.ForumPosts(), s.search.Value())
}

func (s *Screen) count() int {
	switch s.tab {
	case TabForum:
		return len(s.Posts())
	case TabGroups:
		return len(content.StudyGroups())
	}
	return len(content.Partners())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	key := kmsg.String()

	if s.open {
		if key == "esc" || key == "enter" {
			s.open = false
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

	switch key {
	case "tab":
		s.tab = (s.tab + 1) % Tab(len(tabNames))
		s.cursor = 0
	case "shift+tab":
		s.tab = (s.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		s.cursor = 0
	case "/":
		if s.tab == TabForum {
			return s, s.search.Focus()
		}
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < s.count()-1 {
			s.cursor++
		}
	case "enter":
		if s.tab == TabForum && s.cursor < len(s.Posts()) {
			s.open = true
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	tabs := make([]string, len(tabNames))
	for i, n := range tabNames {
		if Tab(i) == s.tab {
			tabs[i] = theme.ButtonActive.Render(n)
		} else {
			tabs[i] = theme.Hint.Render(" " + n + " ")
		}
	}

	var body string
	switch s.tab {
	case TabForum:
		body = s.renderForum(cw)
	case TabGroups:
		body = s.renderGroups()
	case TabPartners:
		body = s.renderPartners()
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		strings.Join(tabs, " ")+"\n\n"+components.Card("", body, cw))
}

func (s *Screen) line(i int, text string) string {
	if i == s.cursor {
		return theme.Selected.Render("▸ "+text) + "\n"
	}
	return theme.Unselected.Render("  "+text) + "\n"
}

func (s *Screen) renderForum(cw int) string {
	posts := s.Posts()
	if s.open && s.cursor < len(posts) {
		p := posts[s.cursor]
		return theme.Heading.Render(p.Title) + "\n" +
			theme.Hint.Render(fmt.Sprintf("by %s · %s", p.Author, p.Language.NativeName())) + "\n\n" +
			lipgloss.NewStyle().Width(cw-4).Foreground(theme.Text).Render(p.Body) + "\n\n" +
			theme.Hint.Render(fmt.Sprintf("%d replies · %d likes", p.Replies, p.Likes))
	}

	var b strings.Builder
	b.WriteString(s.search.View() + "\n\n")
	if len(posts) == 0 {
		b.WriteString(theme.Hint.Render("No discussions match your search."))
	}
	for i, p := range posts {
		b.WriteString(s.line(i, components.Truncate(p.Title, cw-22)+
			theme.Hint.Render(fmt.Sprintf("  %d replies", p.Replies))))
	}
	return b.String()
}

func (s *Screen) renderGroups() string {
	var b strings.Builder
	for i, g := range content.StudyGroups() {
		b.WriteString(s.line(i, fmt.Sprintf("%s  %s", g.Name,
			theme.Hint.Render(fmt.Sprintf("%d members · next: %s", g.Members, g.NextSession)))))
		b.WriteString("    " + theme.Hint.Render(g.Description) + "\n")
	}
	return b.String()
}

func (s *Screen) renderPartners() string {
	var b strings.Builder
	for i, p := range content.Partners() {
		status := lipgloss.NewStyle().Foreground(theme.TextDim).Render("busy")
		if p.Available {
			status = lipgloss.NewStyle().Foreground(theme.Success).Render("available")
		}
		b.WriteString(s.line(i, fmt.Sprintf("%s  %s  %s", p.Name, status,
			theme.Hint.Render(fmt.Sprintf("%s · %s · %s", p.Language.NativeName(), p.Level, p.Specialty)))))
	}
	return b.String()
}
