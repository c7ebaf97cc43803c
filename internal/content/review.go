package content

import (
	"sort"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// ReviewStatus is where an item stands in the review queue.
type ReviewStatus string

const (
	StatusOverdue  ReviewStatus = "overdue"
	StatusDue      ReviewStatus = "due"
	StatusUpcoming ReviewStatus = "upcoming"
	StatusLearned  ReviewStatus = "learned"
)

var statusRank = map[ReviewStatus]int{
	StatusOverdue:  0,
	StatusDue:      1,
	StatusUpcoming: 2,
	StatusLearned:  3,
}

// ReviewItem is a phrase queued for review.
type ReviewItem struct {
	ID          string
	Content     string
	Translation string
	Language    language.Code
	Difficulty  Difficulty
	Interval    string
	Status      ReviewStatus
}

// Review returns the review queue, most urgent first.
func Review() []ReviewItem {
	items := []ReviewItem{
		{Content: "Hujambo", Translation: "Hello (formal)", Language: language.Swahili,
			Difficulty: Beginner, Interval: "1 day", Status: StatusDue},
		{Content: "Mũndũ wa kĩgongona ndarĩ mbeũ", Translation: "A selfish person has no seeds", Language: language.Kikuyu,
			Difficulty: Advanced, Interval: "3 days", Status: StatusOverdue},
		{Content: "Chamge ak kibendo", Translation: "Unity is strength", Language: language.Kalenjin,
			Difficulty: Intermediate, Interval: "12 hours", Status: StatusUpcoming},
		{Content: "Ber ahinya", Translation: "Very good", Language: language.Luo,
			Difficulty: Beginner, Interval: "2 days", Status: StatusDue},
		{Content: "Asante sana", Translation: "Thank you very much", Language: language.Swahili,
			Difficulty: Beginner, Interval: "7 days", Status: StatusLearned},
	}
	for i := range items {
		items[i].ID = ID(items[i].Content)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return statusRank[items[i].Status] < statusRank[items[j].Status]
	})
	return items
}

// ReviewFor returns the queue for one language.
func ReviewFor(code language.Code) []ReviewItem {
	var out []ReviewItem
	for _, it := range Review() {
		if it.Language == code {
			out = append(out, it)
		}
	}
	return out
}

// DueCount counts items that are due or overdue.
func DueCount(items []ReviewItem) int {
	n := 0
	for _, it := range items {
		if it.Status == StatusDue || it.Status == StatusOverdue {
			n++
		}
	}
	return n
}
