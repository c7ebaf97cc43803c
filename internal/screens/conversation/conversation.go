// Package conversation is the practice chat screen: pick a scenario,
// then type your side of the dialogue.
package conversation

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/content"
	conv "github.com/eltonarunga/lugha-learner-kenya/internal/conversation"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Screen hosts the scenario picker and the running chat.
type Screen struct {
	env       *env.Env
	scenarios []content.Scenario
	menu      components.Menu
	chat      *conv.Conversation
	input     components.TextInput
}

var (
	_ screen.Screen     = (*Screen)(nil)
	_ screen.Leaver     = (*Screen)(nil)
	_ screen.EscHandler = (*Screen)(nil)
)

// New creates the conversation screen.
func New(e *env.Env) *Screen {
	s := &Screen{env: e, scenarios: content.ScenariosFor(e.Language())}
	items := make([]components.MenuItem, len(s.scenarios))
	for i, sc := range s.scenarios {
		items[i] = components.MenuItem{
			Label:  sc.Title,
			Detail: string(sc.Difficulty),
			Action: func() tea.Cmd { return s.start(sc) },
		}
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string {
	if s.chat != nil {
		return s.chat.Scenario.Title
	}
	return "Conversation Practice"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.chat == nil {
		return layout.Hints("↑↓", "Choose", "Enter", "Start", "Esc", "Back")
	}
	if s.chat.Done() {
		return layout.Hints("Enter", "New scenario", "Esc", "Scenarios")
	}
	return layout.Hints("Enter", "Send", "Esc", "Scenarios")
}

// HandlesEsc keeps Esc inside the screen while a chat is open.
func (s *Screen) HandlesEsc() bool { return s.chat != nil }

// Leave drops any partner reply still in flight.
func (s *Screen) Leave() {
	if s.chat != nil {
		s.chat.Abandon()
	}
}

// Chat returns the running conversation, nil in the picker.
func (s *Screen) Chat() *conv.Conversation { return s.chat }

func (s *Screen) start(sc content.Scenario) tea.Cmd {
	s.chat = conv.New(sc, s.env.Partner,
		conv.WithTimeout(s.env.ReplyTimeout()),
		conv.WithLogger(s.env.Log()))
	s.input = components.NewTextInput("", "Type your reply…", 200)
	return s.input.Focus()
}

func (s *Screen) stop() {
	s.chat.Abandon()
	s.chat = nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case conv.ReplyMsg:
		if s.chat != nil && s.chat.Owns(msg) {
			s.chat.Apply(msg)
		}
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	if s.chat != nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.chat == nil {
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	switch msg.String() {
	case "esc":
		s.stop()
		return s, nil
	case "enter":
		if s.chat.Done() {
			s.stop()
			return s, nil
		}
		before := len(s.chat.Lines())
		cmd := s.chat.Say(s.input.Value())
		if len(s.chat.Lines()) > before {
			s.input.Reset()
		}
		return s, cmd
	}
	if s.chat.Done() {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	if len(s.scenarios) == 0 {
		return components.EmptyView(width, height, "No conversations for this language yet.", "Try another language in Settings.")
	}
	cw := components.ContentWidth(width)
	if s.chat == nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderPicker(cw))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderChat(cw, height))
}

func (s *Screen) renderPicker(cw int) string {
	body := s.menu.View()
	if item, ok := s.menu.Current(); ok {
		for _, sc := range s.scenarios {
			if sc.Title == item.Label {
				body += "\n" + theme.Hint.Render(fmt.Sprintf("%s · with a %s · %d lines to say", sc.Description, sc.Partner, sc.UserTurns()))
			}
		}
	}
	mode := "Scripted partner"
	if s.env.Partner != nil {
		mode = "AI partner"
	}
	return components.Card("Choose a scenario  "+theme.Hint.Render(mode), body, cw)
}

func (s *Screen) renderChat(cw, height int) string {
	var lines []string
	for _, l := range s.chat.Lines() {
		lines = append(lines, renderLine(l, cw)...)
	}
	if s.chat.Waiting() {
		lines = append(lines, theme.Pending.Render(s.chat.Scenario.Partner+" is typing…"))
	}
	// Keep the tail of the transcript on screen.
	if room := max(4, height-10); len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	transcript := strings.Join(lines, "\n")

	answered, total := s.chat.Progress()
	var footer string
	switch {
	case s.chat.Done():
		footer = theme.Correct.Render(fmt.Sprintf("Conversation complete! %d of %d lines on target.", s.chat.Matched(), total))
	default:
		footer = s.input.View()
		if exp, ok := s.chat.Expected(); ok {
			footer += "\n" + theme.Hint.Render("Say: "+exp.Translation)
		}
	}
	title := fmt.Sprintf("%s  %d/%d", s.chat.Scenario.Title, answered, total)
	return components.Card(title, transcript+"\n\n"+footer, cw)
}

func renderLine(l conv.Line, cw int) []string {
	speaker := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	text := theme.Body
	if l.User {
		speaker = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	out := []string{speaker.Render(l.Speaker+":") + " " + text.Render(components.Truncate(l.Text, cw-12))}
	if l.Translation != "" {
		out = append(out, "  "+theme.Hint.Render(l.Translation))
	}
	if l.Correction != "" {
		out = append(out, "  "+lipgloss.NewStyle().Foreground(theme.Warning).Render("✎ "+l.Correction))
	}
	return out
}
