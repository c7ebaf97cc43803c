// Package onboarding is the three-step profile wizard shown until the
// learner has a name, an age and a language.
package onboarding

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	ob "github.com/eltonarunga/lugha-learner-kenya/internal/onboarding"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screen"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/layout"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// SyncLaterToast is shown when the profile was kept locally but the
// upload failed.
const SyncLaterToast = "Profile saved on this device. We'll sync it shortly."

// Screen walks the wizard.
type Screen struct {
	env    *env.Env
	wizard *ob.Wizard
	name   components.TextInput
	age    components.TextInput
	langs  components.Menu
	saving bool
	hint   string
}

var (
	_ screen.Screen     = (*Screen)(nil)
	_ screen.Named      = (*Screen)(nil)
	_ screen.EscHandler = (*Screen)(nil)
)

// New creates the wizard, prefilled from the cached profile.
func New(e *env.Env) *Screen {
	s := &Screen{env: e, wizard: ob.New()}

	s.name = components.NewTextInput("", "Your name", 60)
	s.age = components.NewTextInput("", "Your age", 3)
	s.age.Filter = ob.AcceptAgeInput
	s.age.Blur()

	if p := e.Session.Profile(); p != nil {
		s.name.SetValue(p.Name)
		s.age.SetValue(p.Age)
		s.wizard.Language = p.Language
	}

	items := make([]components.MenuItem, 0, len(language.All()))
	for _, c := range language.All() {
		info, _ := language.Lookup(c)
		items = append(items, components.MenuItem{
			Label:  info.NativeName,
			Detail: fmt.Sprintf("%s · %s", info.Label, info.Region),
		})
	}
	s.langs = components.NewMenu(items)
	for i, c := range language.All() {
		if c == s.wizard.Language {
			s.langs.Selected = i
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return s.name.Init() }

func (s *Screen) Title() string { return "Welcome" }

func (s *Screen) Name() string { return screen.NameOnboarding }

// HandlesEsc is true past the first step, where Esc goes back.
func (s *Screen) HandlesEsc() bool { return s.wizard.Step() > ob.StepName }

// Wizard exposes the underlying state.
func (s *Screen) Wizard() *ob.Wizard { return s.wizard }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.wizard.Step() == ob.StepLanguage {
		return layout.Hints("↑↓", "Choose", "Enter", "Start learning", "Esc", "Back")
	}
	if s.wizard.Step() == ob.StepName {
		return layout.Hints("Enter", "Next", "Ctrl+C", "Quit")
	}
	return layout.Hints("Enter", "Next", "Esc", "Back")
}

// sync copies the inputs into the wizard.
func (s *Screen) sync() {
	s.wizard.Name = s.name.Value()
	s.wizard.Age = s.age.Value()
	if s.wizard.Step() == ob.StepLanguage {
		s.wizard.Language = language.All()[s.langs.Selected]
	}
}

func (s *Screen) focusStep() tea.Cmd {
	s.name.Blur()
	s.age.Blur()
	switch s.wizard.Step() {
	case ob.StepName:
		return s.name.Focus()
	case ob.StepAge:
		return s.age.Focus()
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s.forward(msg)
	}
	if s.saving {
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		if s.wizard.Back() {
			s.hint = ""
			return s, s.focusStep()
		}
		return s, nil
	case "enter":
		s.sync()
		if !s.wizard.Next() {
			s.hint = s.missing()
			return s, nil
		}
		s.hint = ""
		if s.wizard.Done() {
			return s, s.save()
		}
		return s, s.focusStep()
	}
	return s.forward(msg)
}

func (s *Screen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.wizard.Step() {
	case ob.StepName:
		s.name, cmd = s.name.Update(msg)
	case ob.StepAge:
		s.age, cmd = s.age.Update(msg)
	case ob.StepLanguage:
		s.langs, cmd = s.langs.Update(msg)
	}
	return s, cmd
}

func (s *Screen) missing() string {
	switch s.wizard.Step() {
	case ob.StepName:
		return "Please tell us your name"
	case ob.StepAge:
		return fmt.Sprintf("Please enter an age between %d and %d", ob.MinAge, ob.MaxAge)
	}
	return "Please choose a language"
}

// save stores the merged profile. The session store publishes the
// change and the app guard moves on to the dashboard.
func (s *Screen) save() tea.Cmd {
	s.saving = true
	store, timeout, logger := s.env.Session, s.env.Timeout(), s.env.Log()
	p := s.wizard.Merge(store.Profile())
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := store.SaveProfile(ctx, p); err != nil {
			logger.Warn("onboarding profile not uploaded", "err", err)
			return screen.ToastMsg{Text: SyncLaterToast}
		}
		return screen.ToastMsg{Text: ob.WelcomeToast(p.Language)}
	}
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}
	step := s.wizard.Step()
	title, hint := step.Prompt()

	var b strings.Builder
	b.WriteString(stepDots(int(step)) + "\n\n")
	b.WriteString(theme.Title.Render(title) + "\n")
	b.WriteString(theme.Subtitle.Render(hint) + "\n\n")

	switch step {
	case ob.StepName:
		b.WriteString(s.name.View())
	case ob.StepAge:
		b.WriteString(s.age.View())
	case ob.StepLanguage:
		b.WriteString(s.langs.View())
	}
	b.WriteString("\n\n")

	switch {
	case s.saving:
		b.WriteString(theme.Pending.Render("Setting up your profile..."))
	case s.hint != "":
		b.WriteString(theme.ErrorText.Render(s.hint))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card("", b.String(), cw))
}

func stepDots(current int) string {
	dots := make([]string, ob.Steps)
	for i := range dots {
		switch {
		case i < current:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Success).Render("●")
		case i == current:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("●")
		default:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Border).Render("○")
		}
	}
	return strings.Join(dots, " ") + theme.Hint.Render(fmt.Sprintf("   step %d of %d", current+1, ob.Steps))
}
