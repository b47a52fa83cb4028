// Package classify ranks cleaned job titles against the ISCO-08 reference
// taxonomy. Each title is scored by two independent signals, lexical token
// overlap and semantic embedding similarity, and the signals are fused by
// taking the better of the two.
package classify

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so that "GESTIÓN" and "gestion"
// compare equal. Spanish-language titles and taxonomy labels use accents
// inconsistently.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// LexicalScore returns the token-set similarity of a title and a taxonomy
// label on a 0-100 scale. Both sides are folded first. Token order and
// repetition are ignored, so a title whose tokens are a subset of a longer
// label still scores 100.
func LexicalScore(title, label string) float64 {
	return float64(fuzzy.TokenSetRatio(Fold(title), Fold(label)))
}
