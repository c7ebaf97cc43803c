// Package onboarding collects the profile fields a new learner is
// missing: name, age and first language.
package onboarding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
	"github.com/eltonarunga/lugha-learner-kenya/internal/session"
)

// Age limits accepted by the age field.
const (
	MinAge = 5
	MaxAge = 100
)

// Step is a wizard page.
type Step int

const (
	StepName Step = iota
	StepAge
	StepLanguage
)

// Steps is the number of wizard pages.
const Steps = 3

func (s Step) String() string {
	switch s {
	case StepName:
		return "name"
	case StepAge:
		return "age"
	case StepLanguage:
		return "language"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Prompt returns the question asked on the step.
func (s Step) Prompt() (title, hint string) {
	switch s {
	case StepName:
		return "What's your name?", "We'd love to know what to call you!"
	case StepAge:
		return "How old are you?", "This helps us personalize your learning experience"
	default:
		return "Which language excites you?", "Choose your first language to master!"
	}
}

// ValidAge reports whether s is a whole number within [MinAge, MaxAge].
func ValidAge(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n >= MinAge && n <= MaxAge
}

// AcceptAgeInput reports whether s may be typed into the age field:
// digits only, never more than MaxAge.
func AcceptAgeInput(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(s)
	return err == nil && n <= MaxAge
}

// Wizard holds the answers given so far.
type Wizard struct {
	step     Step
	done     bool
	Name     string
	Age      string
	Language language.Code
}

// New starts a wizard at the first step.
func New() *Wizard { return &Wizard{} }

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Done reports whether the last step was confirmed.
func (w *Wizard) Done() bool { return w.done }

// CanProceed reports whether the current step's field is filled in.
func (w *Wizard) CanProceed() bool {
	switch w.step {
	case StepName:
		return strings.TrimSpace(w.Name) != ""
	case StepAge:
		return strings.TrimSpace(w.Age) != "" && ValidAge(w.Age)
	case StepLanguage:
		return w.Language.Valid()
	}
	return false
}

// Next confirms the current step. It reports false, changing nothing,
// when the step cannot proceed.
func (w *Wizard) Next() bool {
	if w.done || !w.CanProceed() {
		return false
	}
	if w.step == StepLanguage {
		w.done = true
		return true
	}
	w.step++
	return true
}

// Back returns to the previous step.
func (w *Wizard) Back() bool {
	if w.done || w.step == StepName {
		return false
	}
	w.step--
	return true
}

// Merge returns base with the wizard's answers applied. Email and guest
// status are kept from base.
func (w *Wizard) Merge(base *session.Profile) session.Profile {
	var p session.Profile
	if base != nil {
		p = *base
	}
	p.Name = strings.TrimSpace(w.Name)
	p.Age = strings.TrimSpace(w.Age)
	p.Language = w.Language
	return p
}

// WelcomeToast is shown on the dashboard after onboarding.
func WelcomeToast(code language.Code) string {
	return fmt.Sprintf("Welcome to Lugha Learner! Ready to start learning %s?", code.NativeName())
}
