// Package normalize converts raw posting strings into typed values.
// Every normalizer is a pure function with a uniform contract: empty or
// missing input yields an EINVALID error with an empty-input reason, a value
// that does not match the field's expected shape yields an EINVALID error
// naming the input, and nothing ever panics. Applying any normalizer to its
// own output is a no-op.
package normalize

import (
	"regexp"
	"strings"

	"github.com/franco-sebastiani/servir"
)

// NoInfo is the sentinel for a text field that was present on the page but
// empty after cleaning. It is a defined non-failure value, distinct from a
// parse failure.
const NoInfo = "NO INFO"

var (
	leadingPunct  = regexp.MustCompile(`^[¿¡\s]+`)
	trailingPunct = regexp.MustCompile(`[¿¡\s]+$`)
	leadingBullet = regexp.MustCompile(`(?m)^[\s\-–•*.]+`)
)

// Text cleans a free-text field: trims whitespace, strips wrapping quotes
// and inverted punctuation, removes leading bullet/dash runs on every line,
// and collapses internal whitespace runs to a single space. An input that is
// empty after cleaning normalizes to the NoInfo sentinel.
func Text(raw string) (string, error) {
	if raw == "" {
		return "", servir.Errorf(servir.EINVALID, "text is empty or invalid")
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"'`)
	cleaned = leadingPunct.ReplaceAllString(cleaned, "")
	cleaned = trailingPunct.ReplaceAllString(cleaned, "")
	cleaned = leadingBullet.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cleaned == "" {
		return NoInfo, nil
	}
	return cleaned, nil
}
