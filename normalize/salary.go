package normalize

import (
	"strconv"
	"strings"

	"github.com/franco-sebastiani/servir"
)

// currencyMarker is the Peruvian sol prefix used on every listing salary.
const currencyMarker = "S/."

// Salary converts a currency-prefixed, comma-grouped salary string
// (e.g. "S/. 6,000.00") into its numeric amount.
func Salary(raw string) (float64, error) {
	if raw == "" {
		return 0, servir.Errorf(servir.EINVALID, "salary is empty or invalid")
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, currencyMarker)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, servir.Errorf(servir.EINVALID, "cannot parse salary %q", raw)
	}
	return amount, nil
}

// Vacancies converts a plain integer vacancy-count string into an int.
func Vacancies(raw string) (int, error) {
	if raw == "" {
		return 0, servir.Errorf(servir.EINVALID, "vacancy count is empty or invalid")
	}

	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, servir.Errorf(servir.EINVALID, "cannot parse vacancy count %q", raw)
	}
	return count, nil
}
