package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Lugha styling. Filter, when
// set, rejects edits whose resulting value it does not accept.
type TextInput struct {
	Model  textinput.Model
	Label  string
	Filter func(string) bool
}

// NewTextInput creates a focused text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti, Label: label}
}

// NewPasswordInput creates an unfocused masked input.
func NewPasswordInput(label, placeholder string) TextInput {
	t := NewTextInput(label, placeholder, 72)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	t.Model.Blur()
	return t
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	prev := t.Model.Value()

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Filter != nil && t.Model.Value() != prev && !t.Filter(t.Model.Value()) {
		t.Model.SetValue(prev)
	}
	return t, cmd
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// Value returns the current input value.
func (t TextInput) Value() string { return t.Model.Value() }

// SetValue replaces the value.
func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }

// Reset clears the value.
func (t *TextInput) Reset() { t.Model.Reset() }

// View renders the label above the input.
func (t TextInput) View() string {
	label := ""
	if t.Label != "" {
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if t.Focused() {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		label = style.Render(t.Label) + "\n"
	}
	return label + t.Model.View()
}
