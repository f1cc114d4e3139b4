package importer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
)

// mojibakeQuote is a UTF-8 right single quote that was decoded as
// Windows-1252 somewhere upstream of the game-data export.
const mojibakeQuote = "â€™"

// NameToID converts a display name to a stable snake_case identifier.
// Apostrophes are deleted rather than separated, so "Grinder's Row" becomes
// "grinders_row".
//
// Postcondition: result is lowercase, contains only [a-z0-9_], has no leading
// or trailing underscore, and is idempotent (NameToID(NameToID(s)) == NameToID(s)).
func NameToID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "'", "")
	s = nonAlnumRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Normalize converts a display name into a matching key. It lowercases,
// folds diacritics, drops parenthesised annotations such as "(Upgrade)",
// and collapses every run of other characters to a single space.
//
// Normalize is total: empty input yields empty output.
//
// Postcondition: result contains only [a-z0-9 ], never starts or ends with a
// space, never contains two consecutive spaces, and is idempotent.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, mojibakeQuote, "'")
	s = foldDiacritics(s)
	s = parenthetical.ReplaceAllString(s, "")
	s = nonAlnumRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldDiacritics maps accented letters to their base letter ("é" -> "e").
// A fresh transformer is built per call; transform chains carry state.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
