package backend

import "github.com/eltonarunga/lugha-learner-kenya/internal/language"

// Achievement ids known to the emulated award rules.
const (
	AchievementFirstLesson = "first-lesson"
	AchievementFiveLessons = "five-lessons"
	AchievementStreak3     = "streak-3"
	AchievementStreak7     = "streak-7"
	AchievementXP500       = "xp-500"
	AchievementPerfect     = "perfect-lesson"
	AchievementPolyglot    = "polyglot"
)

// DefaultLessons is the lesson catalog Memory starts with.
func DefaultLessons() []Lesson {
	return []Lesson{
		{ID: "sw-greetings", Title: "Salamu: Greetings", Description: "Say hello, thank you and how are you in Kiswahili.",
			LanguageCode: language.Swahili, Level: 1, OrderIndex: 1, XPReward: 20, IsActive: true, LessonType: "vocabulary",
			CulturalContext: "Greetings are unhurried in East Africa; skipping them is considered rude."},
		{ID: "sw-numbers", Title: "Hesabu: Numbers 1-10", Description: "Count from moja to kumi.",
			LanguageCode: language.Swahili, Level: 1, OrderIndex: 2, XPReward: 20, IsActive: true, LessonType: "vocabulary"},
		{ID: "sw-methali", Title: "Methali: Proverbs", Description: "Understand three well-known Swahili proverbs.",
			LanguageCode: language.Swahili, Level: 2, OrderIndex: 3, XPReward: 30, IsActive: true, LessonType: "proverb",
			CulturalContext: "Methali carry the wisdom of elders and are used to advise without confrontation."},
		{ID: "ki-greetings", Title: "Kũgeithania: Greetings", Description: "Everyday greetings in Gĩkũyũ.",
			LanguageCode: language.Kikuyu, Level: 1, OrderIndex: 4, XPReward: 20, IsActive: true, LessonType: "vocabulary"},
		{ID: "luo-greetings", Title: "Mosruok: Greetings", Description: "Greet and thank people in Dholuo.",
			LanguageCode: language.Luo, Level: 1, OrderIndex: 5, XPReward: 20, IsActive: true, LessonType: "vocabulary"},
		{ID: "kln-greetings", Title: "Chamgei: Greetings", Description: "First words in Kalenjin.",
			LanguageCode: language.Kalenjin, Level: 1, OrderIndex: 6, XPReward: 0, IsActive: true, LessonType: "vocabulary"},
		{ID: "sw-archived", Title: "Old Greetings Draft", LanguageCode: language.Swahili, Level: 1, OrderIndex: 99, IsActive: false},
	}
}

// DefaultQuestions holds the questions and answer keys for DefaultLessons.
func DefaultQuestions() []SeedQuestion {
	q := func(id, lesson string, order int, text string, options []string, correct int, explanation string) SeedQuestion {
		return SeedQuestion{
			Question:     Question{ID: id, LessonID: lesson, Text: text, Options: options, OrderIndex: order},
			CorrectIndex: correct,
			Explanation:  explanation,
		}
	}
	proverb := func(sq SeedQuestion, text, meaning, origin string) SeedQuestion {
		sq.ProverbText = text
		sq.CulturalMeaning = meaning
		sq.LanguageOrigin = origin
		return sq
	}

	return []SeedQuestion{
		q("sw-greetings-1", "sw-greetings", 1, "How do you say \"Hello\" in Kiswahili?",
			[]string{"Jambo", "Asante", "Kwaheri", "Ndiyo"}, 0,
			"Jambo is the everyday greeting; Hujambo is the fuller form."),
		q("sw-greetings-2", "sw-greetings", 2, "What does \"Asante sana\" mean?",
			[]string{"Good morning", "Thank you very much", "See you later", "Welcome"}, 1,
			"Asante means thank you; sana intensifies it."),
		q("sw-greetings-3", "sw-greetings", 3, "Which is a natural reply to \"Habari yako?\"",
			[]string{"Nzuri", "Hapana", "Pole", "Karibu"}, 0,
			"Habari yako asks for your news; Nzuri (good) is the usual answer."),

		q("sw-numbers-1", "sw-numbers", 1, "What number is \"tatu\"?",
			[]string{"One", "Two", "Three", "Four"}, 2, "Moja, mbili, tatu: one, two, three."),
		q("sw-numbers-2", "sw-numbers", 2, "How do you say \"ten\"?",
			[]string{"Kumi", "Tano", "Saba", "Nane"}, 0, "Kumi is ten; tano is five, saba seven, nane eight."),
		q("sw-numbers-3", "sw-numbers", 3, "\"Mbili\" means...",
			[]string{"Five", "Two", "Nine", "Six"}, 1, "Mbili is two."),

		proverb(q("sw-methali-1", "sw-methali", 1, "What does this proverb teach?",
			[]string{"Little by little fills the measure", "Haste makes waste", "Unity is strength", "Respect your elders"}, 0,
			"Kibaba is a small grain measure; it fills one grain at a time."),
			"Haba na haba hujaza kibaba", "Patience and steady effort add up to something great.", "Swahili coast"),
		proverb(q("sw-methali-2", "sw-methali", 2, "Who teaches the child that was not taught by its mother?",
			[]string{"The teacher", "The world", "The elders", "Nobody"}, 1,
			"Asiyefunzwa na mamaye hufunzwa na ulimwengu: life's hardships teach what home did not."),
			"Asiyefunzwa na mamaye hufunzwa na ulimwengu", "Lessons skipped at home are learned the hard way.", "Swahili coast"),
		proverb(q("sw-methali-3", "sw-methali", 3, "Complete the meaning: \"Umoja ni nguvu, utengano ni...\"",
			[]string{"furaha (joy)", "haraka (hurry)", "udhaifu (weakness)", "amani (peace)"}, 2,
			"Unity is strength, division is weakness."),
			"Umoja ni nguvu, utengano ni udhaifu", "A community standing together cannot be broken.", "Swahili coast"),

		q("ki-greetings-1", "ki-greetings", 1, "What does \"Nĩ wega\" mean?",
			[]string{"Thank you", "Goodbye", "Good night", "Come here"}, 0, "Nĩ wega expresses thanks."),
		q("ki-greetings-2", "ki-greetings", 2, "\"Ũhoro waku?\" is used to...",
			[]string{"Say goodbye", "Ask how someone is", "Apologize", "Count to ten"}, 1,
			"Literally \"your news?\", it asks how you are."),
		q("ki-greetings-3", "ki-greetings", 3, "What is a \"mũndũ\"?",
			[]string{"Tree", "Person", "Water", "House"}, 1, "Mũndũ means person; andũ is the plural."),

		q("luo-greetings-1", "luo-greetings", 1, "\"Misawa\" is...",
			[]string{"A greeting", "A farewell", "A number", "A food"}, 0, "Misawa is a common Dholuo hello."),
		q("luo-greetings-2", "luo-greetings", 2, "What does \"Erokamano\" mean?",
			[]string{"Goodbye", "Thank you", "Good morning", "Yes"}, 1, "Erokamano means thank you."),
		q("luo-greetings-3", "luo-greetings", 3, "How would you answer \"Idhi nade?\" (How are you?)",
			[]string{"Adhi maber", "Erokamano", "Oriti", "Ee"}, 0, "Adhi maber: I am doing well. Oriti is goodbye."),

		q("kln-greetings-1", "kln-greetings", 1, "\"Chamgei\" is used to...",
			[]string{"Greet someone", "Ask for food", "Say sorry", "Name a place"}, 0, "Chamgei is the Kalenjin greeting."),
		q("kln-greetings-2", "kln-greetings", 2, "What does \"Kongoi\" mean?",
			[]string{"Hello", "Thank you", "Tomorrow", "Friend"}, 1, "Kongoi means thank you."),
		q("kln-greetings-3", "kln-greetings", 3, "Kalenjin communities live mostly in...",
			[]string{"The coast", "The Rift Valley", "Nairobi only", "The islands"}, 1,
			"The Kalenjin are concentrated in the Rift Valley highlands."),
	}
}

// DefaultAchievements is the achievement catalog Memory starts with.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstLesson, Name: "First Steps", Description: "Complete your first lesson", Icon: "✿", Category: "lessons", XPReward: 10},
		{ID: AchievementFiveLessons, Name: "Dedicated Learner", Description: "Complete five lessons", Icon: "✎", Category: "lessons", XPReward: 25},
		{ID: AchievementStreak3, Name: "On Fire", Description: "Keep a 3-day streak", Icon: "♨", Category: "streak", XPReward: 15},
		{ID: AchievementStreak7, Name: "Week Warrior", Description: "Keep a 7-day streak", Icon: "⚑", Category: "streak", XPReward: 50},
		{ID: AchievementXP500, Name: "Rising Star", Description: "Earn 500 XP", Icon: "★", Category: "xp", XPReward: 20},
		{ID: AchievementPerfect, Name: "Perfect Score", Description: "Answer every question in a lesson correctly", Icon: "◎", Category: "lessons", XPReward: 15},
		{ID: AchievementPolyglot, Name: "Polyglot", Description: "Complete lessons in two languages", Icon: "◍", Category: "languages", XPReward: 40},
	}
}

// DefaultLeaders are public profiles Memory ranks alongside real users.
func DefaultLeaders() []ProfileRow {
	return []ProfileRow{
		{UserID: "seed-amani", Name: "Amani Otieno", TotalXP: 2450, CurrentStreak: 21, SelectedLanguage: language.Luo},
		{UserID: "seed-wanjiku", Name: "Wanjiku Kamau", TotalXP: 1980, CurrentStreak: 12, SelectedLanguage: language.Kikuyu},
		{UserID: "seed-kiprono", Name: "Kiprono Rotich", TotalXP: 1720, CurrentStreak: 9, SelectedLanguage: language.Kalenjin},
		{UserID: "seed-achieng", Name: "Achieng Odhiambo", TotalXP: 1100, CurrentStreak: 4, SelectedLanguage: language.Luo},
		{UserID: "seed-baraka", Name: "Baraka Mwangi", TotalXP: 640, CurrentStreak: 2, SelectedLanguage: language.Swahili},
	}
}
