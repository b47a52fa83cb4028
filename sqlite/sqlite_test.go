package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/sqlite"
	"github.com/stretchr/testify/require"
)

// mustOpenDB opens an in-memory database with the schema applied.
func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func rawPosting(id string) *servir.RawPosting {
	return &servir.RawPosting{
		PostingID:       id,
		Institution:     "MINISTERIO DE SALUD",
		JobTitle:        "ASISTENTE ADMINISTRATIVO",
		StartDate:       "01/12/2025",
		EndDate:         "19/12/2025",
		Salary:          "S/. 3,000.00",
		Vacancies:       "2",
		ContractType:    "D.LEG 1057 - INDETERMINADO",
		Experience:      "Dos años en el sector público",
		AcademicProfile: "Bachiller en administración",
		Specialization:  "Gestión pública",
		Knowledge:       "Ofimática",
		Competencies:    "Orden, proactividad",
		ScrapedAt:       time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		ctx := context.Background()

		for _, table := range []string{
			"job_postings", "job_postings_incomplete",
			"normalized_jobs", "normalized_jobs_incomplete",
			"taxonomy_categories", "taxonomy_embeddings",
		} {
			var count int
			err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
			require.NoError(t, err, "table %s missing", table)
		}
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/test.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})
}
