package content

import (
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// ItemType classifies library items.
type ItemType string

const (
	TypeProverb   ItemType = "proverb"
	TypeStory     ItemType = "story"
	TypeTradition ItemType = "tradition"
	TypeHistory   ItemType = "history"
)

// ItemTypes lists the library tabs after "all".
var ItemTypes = []ItemType{TypeProverb, TypeStory, TypeTradition, TypeHistory}

// LibraryItem is a proverb, story or tradition. Language is empty for
// items told in English about the region as a whole.
type LibraryItem struct {
	ID         string
	Title      string
	Content    string
	Type       ItemType
	Language   language.Code
	Origin     string
	Meaning    string
	Tags       []string
	Difficulty Difficulty
}

// Library returns the cultural library.
func Library() []LibraryItem {
	items := []LibraryItem{
		{
			Title: "Haraka haraka haina baraka", Content: "Haraka haraka haina baraka",
			Type: TypeProverb, Language: language.Swahili, Origin: "East Africa",
			Meaning:    "Hurrying hastily brings no blessing. Patience and doing things properly beat rushing.",
			Tags:       []string{"patience", "wisdom", "planning"},
			Difficulty: Beginner,
		},
		{
			Title: "Mti hauendi ila kwa mti", Content: "Mti hauendi ila kwa mti",
			Type: TypeProverb, Language: language.Swahili, Origin: "Tanzania",
			Meaning:    "A tree does not fall without help from another tree. Relationships and community support matter.",
			Tags:       []string{"community", "cooperation", "relationships"},
			Difficulty: Intermediate,
		},
		{
			Title: "Usijenge nyumba bila msingi", Content: "Usijenge nyumba bila msingi",
			Type: TypeProverb, Language: language.Swahili, Origin: "Kenya",
			Meaning:    "Do not build a house without a foundation. Prepare properly before any endeavour.",
			Tags:       []string{"preparation", "foundation", "planning"},
			Difficulty: Beginner,
		},
		{
			Title:      "The Origin of Lake Victoria",
			Content:    "Long ago, in the heart of East Africa, there lived a maiden named Nalubaale. The gods were so moved by her kindness that they blessed the land with a great lake in her honour.",
			Type:       TypeStory, Origin: "Uganda",
			Tags:       []string{"mythology", "nature", "legends"},
			Difficulty: Intermediate,
		},
		{
			Title:      "Traditional Maasai Greeting",
			Content:    "The Maasai greet one another with 'Kasserian Ingera?', meaning 'And how are the children?'. The greeting puts the wellbeing of every child first.",
			Type:       TypeTradition, Origin: "Kenya & Tanzania",
			Tags:       []string{"greetings", "community", "children"},
			Difficulty: Beginner,
		},
		{
			Title: "Iwe yak chuny", Content: "Iwe yak chuny",
			Type: TypeProverb, Language: language.Luo, Origin: "Kenya",
			Meaning:    "You are the medicine of the heart. Said to someone who brings joy and healing to your life.",
			Tags:       []string{"love", "healing", "relationships"},
			Difficulty: Advanced,
		},
		{
			Title: "Mũndũ wa kĩgongona ndarĩ mbeũ", Content: "Mũndũ wa kĩgongona ndarĩ mbeũ",
			Type: TypeProverb, Language: language.Kikuyu, Origin: "Central Kenya",
			Meaning:    "A selfish person has no seeds. Whoever never shares will have nothing to plant when the rains come.",
			Tags:       []string{"generosity", "community", "farming"},
			Difficulty: Advanced,
		},
		{
			Title: "Chamge ak kibendo", Content: "Chamge ak kibendo",
			Type: TypeProverb, Language: language.Kalenjin, Origin: "Rift Valley",
			Meaning:    "Unity is strength. Used at gatherings to call people to work together.",
			Tags:       []string{"unity", "community"},
			Difficulty: Intermediate,
		},
		{
			Title:      "The Swahili Coast Trade",
			Content:    "For centuries the coastal towns of Lamu, Mombasa and Kilwa traded with Arabia, Persia and India. Kiswahili grew from that meeting of Bantu speech and the languages of visiting merchants.",
			Type:       TypeHistory, Language: language.Swahili, Origin: "Kenyan Coast",
			Tags:       []string{"trade", "history", "language"},
			Difficulty: Intermediate,
		},
	}
	for i := range items {
		items[i].ID = ID(items[i].Title)
	}
	return items
}

// SearchLibrary filters items by a case-insensitive query over title,
// content, tags and origin, and by type. An empty typ keeps every type.
func SearchLibrary(items []LibraryItem, query string, typ ItemType) []LibraryItem {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []LibraryItem
	for _, it := range items {
		if typ != "" && it.Type != typ {
			continue
		}
		if !matches(q, append([]string{it.Title, it.Content, it.Origin}, it.Tags...)...) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// LibraryFor returns the items in code plus the region-wide ones.
func LibraryFor(code language.Code) []LibraryItem {
	return forLanguage(Library(), code, func(it LibraryItem) language.Code { return it.Language })
}
