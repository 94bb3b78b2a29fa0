package ledger

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName title-cases a display name: the first letter of every word is
// upper-cased and the remainder lower-cased. Empty names are returned as-is.
func NormalizeName(name string) string {
	if name == "" {
		return name
	}
	// Casers carry state, so each call gets its own.
	return cases.Title(language.Und).String(name)
}
