package content

import "github.com/eltonarunga/lugha-learner-kenya/internal/language"

// GrammarTopic is a unit of the grammar guide.
type GrammarTopic struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	Lessons     int
	Completed   int
	Unlocked    bool
	Concepts    []string
}

// Done reports whether every lesson of the topic is completed.
func (t GrammarTopic) Done() bool { return t.Lessons > 0 && t.Completed >= t.Lessons }

// GrammarRule is a short rule with an example.
type GrammarRule struct {
	Rule        string
	Explanation string
	Example     string
	Language    language.Code
}

// Exercise is a grammar practice set.
type Exercise struct {
	ID         string
	Title      string
	Kind       string
	Difficulty Difficulty
	Questions  int
	Minutes    int
}

var grammarTopics = map[language.Code][]GrammarTopic{
	language.Swahili: {
		{Title: "Basic Sentence Structure", Description: "Learn the fundamental word order in Kiswahili",
			Difficulty: Beginner, Lessons: 5, Completed: 5, Unlocked: true,
			Concepts: []string{"Subject-Verb-Object", "Noun Classes", "Basic Questions"}},
		{Title: "Verb Conjugations", Description: "Master present, past and future tense markers",
			Difficulty: Intermediate, Lessons: 8, Completed: 3, Unlocked: true,
			Concepts: []string{"Tense Markers", "Subject Prefixes", "Negative Forms"}},
		{Title: "Noun Classes & Agreement", Description: "Understand the noun class system",
			Difficulty: Advanced, Lessons: 12,
			Concepts: []string{"Class Prefixes", "Adjective Agreement", "Possessive Forms"}},
	},
	language.Kikuyu: {
		{Title: "Basic Greetings & Responses", Description: "Essential greeting patterns in Gĩkũyũ",
			Difficulty: Beginner, Lessons: 4, Completed: 4, Unlocked: true,
			Concepts: []string{"Time-based Greetings", "Formal vs Informal", "Age Respect"}},
		{Title: "Tonal Patterns", Description: "Master the tonal system of Gĩkũyũ",
			Difficulty: Intermediate, Lessons: 10, Completed: 2, Unlocked: true,
			Concepts: []string{"High Tone", "Low Tone", "Rising Tone", "Meaning Changes"}},
	},
	language.Luo: {
		{Title: "Greetings and Time of Day", Description: "Misawa, oyawore and oyimore",
			Difficulty: Beginner, Lessons: 4, Unlocked: true,
			Concepts: []string{"Morning Greetings", "Evening Greetings", "Replies"}},
		{Title: "Possessives", Description: "Mara, mari and mage",
			Difficulty: Intermediate, Lessons: 6,
			Concepts: []string{"Singular Possessors", "Plural Possessors"}},
	},
	language.Kalenjin: {
		{Title: "Basic Sentence Formation", Description: "Learn to construct simple sentences",
			Difficulty: Beginner, Lessons: 6, Completed: 1, Unlocked: true,
			Concepts: []string{"Word Order", "Basic Verbs", "Simple Questions"}},
		{Title: "Cultural Expressions", Description: "Traditional phrases and cultural context",
			Difficulty: Intermediate, Lessons: 8, Unlocked: true,
			Concepts: []string{"Ceremonial Language", "Respect Forms", "Traditional Wisdom"}},
	},
}

// Grammar returns the topics for a language in study order.
func Grammar(code language.Code) []GrammarTopic {
	src := grammarTopics[code]
	out := make([]GrammarTopic, len(src))
	for i, t := range src {
		t.ID = ID(t.Title)
		t.Concepts = append([]string(nil), t.Concepts...)
		out[i] = t
	}
	return out
}

// GrammarRules returns the cross-language rule cards.
func GrammarRules() []GrammarRule {
	return []GrammarRule{
		{Rule: "Verb-Subject Agreement", Explanation: "Verbs agree with their subjects in person and number",
			Example: "Ni-na-soma (I am reading) vs Tu-na-soma (We are reading)", Language: language.Swahili},
		{Rule: "Tonal Meaning", Explanation: "A change of tone can change the meaning of a word",
			Example: "mũndũ (person) vs mundũ (a different tone, a different word)", Language: language.Kikuyu},
		{Rule: "Respect Hierarchy", Explanation: "Speech changes with age and social status",
			Example: "Elders and peers are greeted differently", Language: language.Kalenjin},
	}
}

// Exercises returns the grammar practice sets.
func Exercises() []Exercise {
	ex := []Exercise{
		{Title: "Verb Conjugation Practice", Kind: "Fill in the blanks", Difficulty: Intermediate, Questions: 15, Minutes: 10},
		{Title: "Sentence Reordering", Kind: "Reorder", Difficulty: Beginner, Questions: 10, Minutes: 8},
		{Title: "Cultural Context Quiz", Kind: "Multiple choice", Difficulty: Advanced, Questions: 20, Minutes: 15},
	}
	for i := range ex {
		ex[i].ID = ID(ex[i].Title)
	}
	return ex
}
