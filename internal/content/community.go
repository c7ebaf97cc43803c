package content

import (
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// ForumPost is a community discussion thread.
type ForumPost struct {
	ID       string
	Author   string
	Title    string
	Body     string
	Replies  int
	Likes    int
	Language language.Code
}

// StudyGroup meets regularly to practise one language.
type StudyGroup struct {
	ID          string
	Name        string
	Members     int
	Language    language.Code
	Description string
	NextSession string
}

// Partner is a practice partner offering conversation sessions.
type Partner struct {
	Name      string
	Level     Difficulty
	Language  language.Code
	Specialty string
	Available bool
}

// ForumPosts returns the recent threads.
func ForumPosts() []ForumPost {
	posts := []ForumPost{
		{Author: "Amina K.", Title: "Struggling with Kalenjin pronunciation",
			Body: `Can anyone help with the proper pronunciation of "kiptaiyat"?`, Replies: 12, Likes: 8, Language: language.Kalenjin},
		{Author: "John M.", Title: "Beautiful Kikuyu proverb meaning",
			Body: `Just learned "Mũndũ wa kĩgongona ndarĩ mbeũ" and love the wisdom!`, Replies: 6, Likes: 15, Language: language.Kikuyu},
		{Author: "Halima S.", Title: "Noun classes finally clicked",
			Body: "Thinking of m-wa as the people class made it easy. What helped you?", Replies: 9, Likes: 21, Language: language.Swahili},
	}
	for i := range posts {
		posts[i].ID = ID(posts[i].Title)
	}
	return posts
}

// SearchPosts filters posts by a case-insensitive query over title and body.
func SearchPosts(posts []ForumPost, query string) []ForumPost {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []ForumPost
	for _, p := range posts {
		if matches(q, p.Title, p.Body, p.Author) {
			out = append(out, p)
		}
	}
	return out
}

// StudyGroups returns the active study groups.
func StudyGroups() []StudyGroup {
	groups := []StudyGroup{
		{Name: "Swahili Beginners", Members: 24, Language: language.Swahili,
			Description: "Daily practice sessions for beginners", NextSession: "Today 6 PM"},
		{Name: "Kalenjin Culture Club", Members: 18, Language: language.Kalenjin,
			Description: "Learn language through cultural stories", NextSession: "Tomorrow 7 PM"},
		{Name: "Dholuo by the Lake", Members: 11, Language: language.Luo,
			Description: "Weekend conversation circle", NextSession: "Saturday 10 AM"},
	}
	for i := range groups {
		groups[i].ID = ID(groups[i].Name)
	}
	return groups
}

// Partners returns the practice partners.
func Partners() []Partner {
	return []Partner{
		{Name: "Sarah", Level: Intermediate, Language: language.Swahili, Specialty: "Business conversations", Available: true},
		{Name: "David", Level: Advanced, Language: language.Kikuyu, Specialty: "Cultural discussions"},
		{Name: "Grace", Level: Beginner, Language: language.Kalenjin, Specialty: "Daily conversations", Available: true},
	}
}
