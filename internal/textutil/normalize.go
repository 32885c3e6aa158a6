// Package textutil provides name normalization helpers shared by the exercise
// catalog lookup and the chat intent classifier.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes characters and removes combining marks, so that
// "execução" becomes "execucao".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, strips diacritics and punctuation, and collapses
// whitespace. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	lowered := strings.ToLower(name)

	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		// Transform failures leave the input unusable for matching; fall back to
		// the lowercased original so lookups degrade instead of breaking.
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastSpace := true
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		}
		// Punctuation and symbols are dropped.
	}
	return strings.TrimRight(b.String(), " ")
}

// ContainsEither reports whether either normalized string contains the other.
// The catalog name matching tolerates partial containment in both directions.
func ContainsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
