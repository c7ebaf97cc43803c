// Package language enumerates the languages Lugha teaches and the
// metadata attached to each one.
package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned by Parse for codes outside the supported set.
var ErrUnknown = errors.New("unknown language code")

// Code is the stable identifier of a taught language. The string values
// match the backend's language_code column.
type Code string

const (
	Swahili  Code = "swahili"
	Kikuyu   Code = "kikuyu"
	Luo      Code = "luo"
	Kalenjin Code = "kalenjin"
)

// Info describes how a language is presented to the learner.
type Info struct {
	Code       Code
	Label      string // English name, e.g. "Swahili"
	NativeName string // endonym, e.g. "Kiswahili"
	Locale     string // BCP-47 tag
	Greeting   string // informal hello used on the dashboard
	Region     string
}

// table must hold an entry for every Code in order.
var table = map[Code]Info{
	Swahili: {
		Code:       Swahili,
		Label:      "Swahili",
		NativeName: "Kiswahili",
		Locale:     "sw-KE",
		Greeting:   "Jambo",
		Region:     "East Africa",
	},
	Kikuyu: {
		Code:       Kikuyu,
		Label:      "Kikuyu",
		NativeName: "Gĩkũyũ",
		Locale:     "ki-KE",
		Greeting:   "Wĩ mwega",
		Region:     "Central Kenya",
	},
	Luo: {
		Code:       Luo,
		Label:      "Luo",
		NativeName: "Dholuo",
		Locale:     "luo-KE",
		Greeting:   "Misawa",
		Region:     "Lake Victoria",
	},
	Kalenjin: {
		Code:       Kalenjin,
		Label:      "Kalenjin",
		NativeName: "Kalenjin",
		Locale:     "kln-KE",
		Greeting:   "Chamgei",
		Region:     "Rift Valley",
	},
}

var order = []Code{Swahili, Kikuyu, Luo, Kalenjin}

// All returns every supported code in display order.
func All() []Code {
	out := make([]Code, len(order))
	copy(out, order)
	return out
}

// Parse converts s into a Code. Matching is case-insensitive and accepts
// the English label or the native name as well as the code itself.
func Parse(s string) (Code, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknown)
	}
	for _, c := range order {
		info := table[c]
		if key == string(c) || key == strings.ToLower(info.Label) || key == strings.ToLower(info.NativeName) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Lookup returns the metadata for c. The boolean is false for codes
// outside the supported set.
func Lookup(c Code) (Info, bool) {
	info, ok := table[c]
	return info, ok
}

// Valid reports whether c is one of the supported codes.
func (c Code) Valid() bool {
	_, ok := table[c]
	return ok
}

// Label returns the English name, or the raw code when c is unknown so
// that bad data stays visible rather than being replaced.
func (c Code) Label() string {
	if info, ok := table[c]; ok {
		return info.Label
	}
	return string(c)
}

// NativeName returns the endonym, or the raw code when c is unknown.
func (c Code) NativeName() string {
	if info, ok := table[c]; ok {
		return info.NativeName
	}
	return string(c)
}

func (c Code) String() string { return string(c) }
