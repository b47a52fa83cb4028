package normalize

import (
	"strings"
	"time"

	"github.com/franco-sebastiani/servir"
)

const (
	listingDateLayout = "02/01/2006" // DD/MM/YYYY as published on the listing
	isoDateLayout     = "2006-01-02"
)

// Date converts a DD/MM/YYYY date string into ISO YYYY-MM-DD form. The
// parse is a strict calendar parse: out-of-range days ("31/02/2025") and
// other layouts ("2025-12-19") fail rather than producing a wrong date.
func Date(raw string) (string, error) {
	if raw == "" {
		return "", servir.Errorf(servir.EINVALID, "date is empty or invalid")
	}

	t, err := time.Parse(listingDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", servir.Errorf(servir.EINVALID, "cannot parse date %q", raw)
	}
	return t.Format(isoDateLayout), nil
}
