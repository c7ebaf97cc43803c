package content

import "github.com/eltonarunga/lugha-learner-kenya/internal/language"

// Turn is one line of a scripted conversation. On a user turn Text is
// the model answer the learner is expected to approximate.
type Turn struct {
	Speaker     string
	Text        string
	Translation string
	UserTurn    bool
}

// Scenario is a scripted conversation.
type Scenario struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	Language    language.Code
	Partner     string
	Turns       []Turn
}

// Scenarios returns every conversation scenario.
func Scenarios() []Scenario {
	sc := []Scenario{
		{
			Title: "At the Market", Description: "Practice buying fruits and vegetables",
			Difficulty: Beginner, Language: language.Swahili, Partner: "vendor",
			Turns: []Turn{
				{Speaker: "vendor", Text: "Habari za asubuhi! Karibu dukani.", Translation: "Good morning! Welcome to the shop."},
				{Speaker: "you", Text: "Nzuri! Ningependa kununua matunda.", Translation: "Fine! I would like to buy some fruit.", UserTurn: true},
				{Speaker: "vendor", Text: "Vizuri! Tuna machungwa, ndizi na mapapai.", Translation: "Great! We have oranges, bananas and papayas."},
				{Speaker: "you", Text: "Ndizi ni bei gani?", Translation: "How much are the bananas?", UserTurn: true},
				{Speaker: "vendor", Text: "Ndizi tano ni shilingi hamsini.", Translation: "Five bananas are fifty shillings."},
				{Speaker: "you", Text: "Sawa, nipe ndizi tano tafadhali.", Translation: "OK, give me five bananas please.", UserTurn: true},
				{Speaker: "vendor", Text: "Asante sana! Karibu tena.", Translation: "Thank you very much! Come again."},
			},
		},
		{
			Title: "Ordering Coffee", Description: "Learn to order drinks and snacks",
			Difficulty: Beginner, Language: language.Swahili, Partner: "waiter",
			Turns: []Turn{
				{Speaker: "waiter", Text: "Karibu! Ungependa kunywa nini?", Translation: "Welcome! What would you like to drink?"},
				{Speaker: "you", Text: "Naomba kahawa moja na maziwa.", Translation: "May I have one coffee with milk.", UserTurn: true},
				{Speaker: "waiter", Text: "Sawa. Unataka mandazi pia?", Translation: "OK. Do you want mandazi too?"},
				{Speaker: "you", Text: "Ndiyo, mawili tafadhali.", Translation: "Yes, two please.", UserTurn: true},
				{Speaker: "waiter", Text: "Ni shilingi mia moja na hamsini.", Translation: "That is one hundred and fifty shillings."},
			},
		},
		{
			Title: "Office Meeting", Description: "Professional conversation practice",
			Difficulty: Intermediate, Language: language.Swahili, Partner: "colleague",
			Turns: []Turn{
				{Speaker: "colleague", Text: "Mkutano utaanza saa tatu kamili.", Translation: "The meeting will start at nine o'clock sharp."},
				{Speaker: "you", Text: "Sawa, nitaleta ripoti ya mauzo.", Translation: "OK, I will bring the sales report.", UserTurn: true},
				{Speaker: "colleague", Text: "Asante. Je, takwimu ziko tayari?", Translation: "Thanks. Are the figures ready?"},
				{Speaker: "you", Text: "Ndiyo, nimezimaliza jana jioni.", Translation: "Yes, I finished them yesterday evening.", UserTurn: true},
			},
		},
		{
			Title: "Family Gathering", Description: "Casual conversation with relatives",
			Difficulty: Intermediate, Language: language.Kikuyu, Partner: "cũcũ",
			Turns: []Turn{
				{Speaker: "cũcũ", Text: "Wĩ mwega mwana wakwa?", Translation: "Are you well, my child?"},
				{Speaker: "you", Text: "Ĩĩ, ndĩ mwega. Wee wĩ mwega?", Translation: "Yes, I am well. Are you well?", UserTurn: true},
				{Speaker: "cũcũ", Text: "Ndĩ mwega mũno. Ũkĩrĩ gũthoma?", Translation: "I am very well. Are you still studying?"},
				{Speaker: "you", Text: "Ĩĩ, ndĩ gũthoma Gĩkũyũ.", Translation: "Yes, I am learning Gĩkũyũ.", UserTurn: true},
			},
		},
		{
			Title: "Greeting a Neighbour", Description: "Morning greetings by the lake",
			Difficulty: Beginner, Language: language.Luo, Partner: "jaot",
			Turns: []Turn{
				{Speaker: "jaot", Text: "Oyawore! Idhi nade?", Translation: "Good morning! How are you?"},
				{Speaker: "you", Text: "Adhi maber, erokamano.", Translation: "I am fine, thank you.", UserTurn: true},
				{Speaker: "jaot", Text: "Idhi kanye kawuono?", Translation: "Where are you going today?"},
				{Speaker: "you", Text: "Adhi chiro.", Translation: "I am going to the market.", UserTurn: true},
			},
		},
		{
			Title: "Visiting the Farm", Description: "Talk about cattle and the harvest",
			Difficulty: Beginner, Language: language.Kalenjin, Partner: "farmer",
			Turns: []Turn{
				{Speaker: "farmer", Text: "Chamgei! Ne kararan?", Translation: "Hello! Is everything good?"},
				{Speaker: "you", Text: "Kararan mising. Ichamgei?", Translation: "Very good. And you?", UserTurn: true},
				{Speaker: "farmer", Text: "Achamgei. Ngo'ny kararan tugul.", Translation: "I am well. The land is good this season."},
			},
		},
	}
	for i := range sc {
		sc[i].ID = ID(sc[i].Title)
	}
	return sc
}

// ScenariosFor returns the scenarios in one language.
func ScenariosFor(code language.Code) []Scenario {
	return forLanguage(Scenarios(), code, func(s Scenario) language.Code { return s.Language })
}

// FindScenario looks a scenario up by id.
func FindScenario(id string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// UserTurns counts the turns the learner must answer.
func (s Scenario) UserTurns() int {
	n := 0
	for _, t := range s.Turns {
		if t.UserTurn {
			n++
		}
	}
	return n
}
