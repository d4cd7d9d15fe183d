// Package textnorm folds and tokenizes French and English political text.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "oe",
	"æ", "ae", "Æ", "ae",
	"’", "'", "‘", "'", "`", "'",
)

// Fold lower-cases s and strips diacritics ("Réduire" -> "reduire")
func Fold(s string) string {
	s = ligatures.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Tokens splits s on every rune that is not a letter or digit. Case and
// accents are preserved; callers fold first when they need to.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Padded folds s and rewrites it as space-separated words wrapped in
// single spaces, keeping apostrophes inside words. Phrase lookups on the
// result with Contains(Padded(s), Padded(phrase)) respect word boundaries.
func Padded(s string) string {
	words := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return " " + strings.Join(words, " ") + " "
}

// ContainsPhrase reports whether phrase occurs in s on word boundaries,
// ignoring case, accents and punctuation.
func ContainsPhrase(s, phrase string) bool {
	return strings.Contains(Padded(s), Padded(phrase))
}

// RuneLen counts characters rather than bytes
func RuneLen(s string) int {
	return len([]rune(s))
}
