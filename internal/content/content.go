// Package content holds the static learning catalogs: the cultural
// library, grammar guides, challenges, review items, community boards
// and conversation scenarios. Every item id is the slug of its title.
package content

import (
	"strings"

	"github.com/gosimple/slug"

	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// Difficulty levels used across catalogs.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ID returns the catalog id for a title.
func ID(title string) string { return slug.Make(title) }

// matches reports whether any field contains q, ignoring case.
func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// forLanguage keeps items whose language is code or unset.
func forLanguage[T any](items []T, code language.Code, lang func(T) language.Code) []T {
	var out []T
	for _, it := range items {
		if l := lang(it); l == "" || l == code {
			out = append(out, it)
		}
	}
	return out
}
