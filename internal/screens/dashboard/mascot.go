package dashboard

import (
	"charm.land/lipgloss/v2"

	"github.com/eltonarunga/lugha-learner-kenya/internal/ui/theme"
)

// Mood selects which Kasuku art to display.
type Mood int

const (
	MoodIdle      Mood = iota
	MoodCelebrate      // daily goal reached
	MoodAlert          // streak at risk
)

const kasukuIdle = `  ▄██▄
 █ ◉ ▶
 ▀█▀█▀
   ╨╨`

const kasukuCelebrate = `\ ▄██▄ /
 █ ★ ▶
 ▀█▀█▀
   ╨╨`

const kasukuAlert = `  ▄██▄  !
 █ ◉ ▶
 ▀█▀█▀
   ╨╨`

// MoodFor picks the mascot mood from today's figures.
func MoodFor(todayXP, streak, goal int) Mood {
	switch {
	case todayXP >= goal && goal > 0:
		return MoodCelebrate
	case todayXP == 0 && streak > 0:
		return MoodAlert
	}
	return MoodIdle
}

// RenderMascot returns Kasuku the parrot for mood.
func RenderMascot(mood Mood) string {
	art, fg := kasukuIdle, theme.Primary
	switch mood {
	case MoodCelebrate:
		art, fg = kasukuCelebrate, theme.Secondary
	case MoodAlert:
		art, fg = kasukuAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

func moodLine(mood Mood) string {
	switch mood {
	case MoodCelebrate:
		return "Hongera! Daily goal reached."
	case MoodAlert:
		return "Your streak is waiting. One lesson keeps it alive."
	}
	return "Karibu tena! Pick a lesson to keep going."
}
