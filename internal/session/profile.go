package session

import (
	"strconv"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/language"
)

// Profile is the learner profile the client works with.
type Profile struct {
	Name     string
	Age      string
	Language language.Code
	Email    string
	IsGuest  bool
}

// IsComplete reports whether name, age and language are all set.
func (p *Profile) IsComplete() bool {
	return p != nil && p.Name != "" && p.Age != "" && p.Language != ""
}

// NewGuestProfile returns an empty profile for a learner with no account.
func NewGuestProfile() *Profile {
	return &Profile{IsGuest: true}
}

// ProfileFromRow converts a profiles row. Unset or unknown columns stay
// empty so the learner is sent through onboarding.
func ProfileFromRow(row *backend.ProfileRow) *Profile {
	if row == nil {
		return &Profile{}
	}
	p := &Profile{Name: row.Name, Email: row.Email}
	if row.Age > 0 {
		p.Age = strconv.Itoa(row.Age)
	}
	if row.SelectedLanguage.Valid() {
		p.Language = row.SelectedLanguage
	}
	return p
}

// Row returns the editable columns of p for userID.
func (p *Profile) Row(userID string) backend.ProfileRow {
	age, _ := strconv.Atoi(p.Age)
	return backend.ProfileRow{
		UserID:           userID,
		Name:             p.Name,
		Age:              age,
		Email:            p.Email,
		SelectedLanguage: p.Language,
	}
}

func (p *Profile) clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Route is where the navigation guard sends the learner.
type Route int

const (
	// RouteOpen lets the requested screen through.
	RouteOpen Route = iota
	// RouteEntry is the landing screen for learners with no identity.
	RouteEntry
	// RouteOnboarding collects the missing profile fields.
	RouteOnboarding
)

func (r Route) String() string {
	switch r {
	case RouteEntry:
		return "entry"
	case RouteOnboarding:
		return "onboarding"
	default:
		return "open"
	}
}
