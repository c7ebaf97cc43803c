package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/components"
	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// renderQuestion renders the current question, and the verdict once an
// option has been chosen.
func (s *Screen) renderQuestion(width, height int) string {
	q, ok := s.runner.Current()
	if !ok {
		return components.LoadingView(width, height, "Loading questions...")
	}
	cw := components.ContentWidth(width)

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d", s.runner.Index()+1, s.runner.Total()))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d correct",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), s.runner.Score()))
	pad := cw - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(infoLeft + strings.Repeat(" ", pad) + infoRight + "\n")

	pct := float64(s.runner.Answered()) / float64(s.runner.Total())
	b.WriteString(components.NewProgressBar("", pct, false, cw).View())
	b.WriteString("\n\n")

	if q.ProverbText != "" {
		body := lipgloss.NewStyle().Foreground(theme.Secondary).Italic(true).Render("“"+q.ProverbText+"”") + "\n"
		if q.CulturalMeaning != "" {
			body += theme.Hint.Render(q.CulturalMeaning)
		}
		b.WriteString(components.Card("Proverb", body, cw))
		b.WriteString("\n\n")
	}

	b.WriteString(s.choice.View())
	b.WriteString("\n")
	b.WriteString(s.renderVerdict(cw))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderVerdict renders the feedback block under the options.
func (s *Screen) renderVerdict(cw int) string {
	if s.runner.Selected() < 0 {
		return theme.Hint.Render("Select 1-4 or use arrows + Enter")
	}
	v := s.runner.Verdict()
	if v == nil {
		return theme.Pending.Render("Checking your answer...")
	}

	var b strings.Builder
	switch {
	case !v.Success:
		b.WriteString(theme.Pending.Render("We couldn't check that answer right now. It won't count against you."))
	case v.IsCorrect:
		line := "Correct!"
		if v.XPEarned > 0 {
			line += fmt.Sprintf("  +%d XP", v.XPEarned)
		}
		b.WriteString(theme.Correct.Render(line))
	default:
		b.WriteString(theme.Incorrect.Render("Not quite"))
	}

	if v.Success && v.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(v.Explanation))
	}

	next := "Press Enter for the next question"
	if s.runner.Index()+1 >= s.runner.Total() {
		next = "Press Enter to finish the lesson"
	}
	b.WriteString("\n\n" + theme.Hint.Render(next))
	return b.String()
}

func (s *Screen) renderComplete(width, height int) string {
	body := theme.Title.Render("Lesson complete!") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("You got %d of %d right", s.runner.Score(), s.runner.Total())) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("+%d XP", s.runner.EarnedXP())) + "\n\n" +
		theme.Pending.Render("Saving your progress...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// renderQuitConfirm renders the leave-lesson dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this lesson?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Your answers so far will not count towards completion."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
