package content

import "github.com/eltonarunga/lugha-learner-kenya/internal/language"

// Challenge is a daily task.
type Challenge struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	XPReward    int
	Language    language.Code
	Completed   bool
}

// WeeklyChallenge is the challenge running this week.
type WeeklyChallenge struct {
	Title        string
	Description  string
	Progress     int
	Total        int
	DaysLeft     int
	XPReward     int
	Participants int
}

// Percent returns the completed fraction in [0, 1].
func (w WeeklyChallenge) Percent() float64 {
	if w.Total <= 0 {
		return 0
	}
	if w.Progress >= w.Total {
		return 1
	}
	return float64(w.Progress) / float64(w.Total)
}

// Competition is a community-wide contest.
type Competition struct {
	ID           string
	Title        string
	Description  string
	Participants int
	Prize        string
	Active       bool
}

// DailyChallenges returns today's challenges.
func DailyChallenges() []Challenge {
	cs := []Challenge{
		{Title: "Morning Greetings", Description: "Practice 5 different ways to say good morning in Gĩkũyũ",
			Difficulty: Beginner, XPReward: 50, Language: language.Kikuyu},
		{Title: "Market Conversation", Description: "Complete the market buying scenario in Kiswahili",
			Difficulty: Intermediate, XPReward: 75, Language: language.Swahili, Completed: true},
		{Title: "Cultural Story Time", Description: "Answer questions about a Kalenjin folktale",
			Difficulty: Advanced, XPReward: 100, Language: language.Kalenjin},
		{Title: "Count the Fish", Description: "Count from achiel to apar in Dholuo",
			Difficulty: Beginner, XPReward: 50, Language: language.Luo},
	}
	for i := range cs {
		cs[i].ID = ID(cs[i].Title)
	}
	return cs
}

// ChallengesFor returns the daily challenges of one language first,
// followed by the rest.
func ChallengesFor(code language.Code) []Challenge {
	all := DailyChallenges()
	out := make([]Challenge, 0, len(all))
	for _, c := range all {
		if c.Language == code {
			out = append(out, c)
		}
	}
	for _, c := range all {
		if c.Language != code {
			out = append(out, c)
		}
	}
	return out
}

// Weekly returns the current weekly challenge.
func Weekly() WeeklyChallenge {
	return WeeklyChallenge{
		Title:        "Proverb Master Week",
		Description:  "Learn 15 traditional proverbs from different Kenyan languages",
		Progress:     8,
		Total:        15,
		DaysLeft:     3,
		XPReward:     500,
		Participants: 127,
	}
}

// Competitions returns the open and upcoming contests.
func Competitions() []Competition {
	cs := []Competition{
		{Title: "Monthly Language Sprint", Description: "Compete with learners nationwide in a month-long challenge",
			Participants: 1250, Prize: "Premium features for 3 months", Active: true},
		{Title: "Cultural Knowledge Quiz", Description: "Test your knowledge of Kenyan cultural traditions",
			Prize: "Cultural immersion workshop"},
	}
	for i := range cs {
		cs[i].ID = ID(cs[i].Title)
	}
	return cs
}
