package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/franco-sebastiani/servir"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// joinFields serializes field names for the *_fields review columns.
func joinFields(fields []servir.FieldName) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

// conflictToError converts a conflict-suppressed insert into ECONFLICT.
func conflictToError(result sql.Result, postingID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return servir.Errorf(servir.ECONFLICT, "posting %s already exists", postingID)
	}
	return nil
}
