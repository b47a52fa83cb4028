package normalize

import (
	"regexp"
	"strings"

	"github.com/franco-sebastiani/servir"
)

var (
	// Quantity articles the listing prepends to titles ("UNA ASISTENTE").
	// Longest alternatives first so "UN" never eats the prefix of "UNA".
	quantityPrefix = regexp.MustCompile(`(?i)^(UN/A|UNAS|UNOS|UNA|UN)\s+`)

	// Gender markers: "(A)", "(O)", "/A", "/O".
	genderParen = regexp.MustCompile(`\s*[(/]([AOao])[)]\s*`)
	genderSlash = regexp.MustCompile(`\s*/[AOao]\b\s*`)

	// Roman-numeral seniority markers up to XX, longest alternatives first
	// so "IV" is never read as "I" followed by "V". Anchored to the whole
	// token: removal is applied per word, not per substring.
	romanNumeral = regexp.MustCompile(`(?i)^(XVIII|XVII|XIII|XVI|XIV|VIII|XIX|XII|VII|III|XV|XI|IX|IV|VI|II|XX|V|X|I)$`)

	// Tokens left dangling once a numeral between words is removed
	// ("PROFESIONAL I – REGISTRADOR").
	punctToken = regexp.MustCompile(`^[-–—.•*]+$`)
)

// Title cleans a job title (or specialization) string: generic text cleaning
// first, then removal of structural noise specific to how the listing writes
// titles: leading quantity articles, gender suffix markers, and
// Roman-numeral seniority markers. A title that is empty after cleaning is a
// failure, unlike plain text fields, because an unnamed title cannot be
// classified.
func Title(raw string) (string, error) {
	cleaned, err := Text(raw)
	if err != nil {
		return "", err
	}
	if cleaned == NoInfo {
		return "", servir.Errorf(servir.EINVALID, "title is empty after cleaning")
	}

	for {
		next := quantityPrefix.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	cleaned = genderParen.ReplaceAllString(cleaned, " ")
	cleaned = genderSlash.ReplaceAllString(cleaned, " ")

	words := strings.Fields(cleaned)
	kept := words[:0]
	for _, w := range words {
		if romanNumeral.MatchString(w) || punctToken.MatchString(w) {
			continue
		}
		kept = append(kept, w)
	}
	cleaned = strings.Join(kept, " ")

	if cleaned == "" {
		return "", servir.Errorf(servir.EINVALID, "title is empty after cleaning")
	}
	return cleaned, nil
}
