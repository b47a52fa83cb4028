package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func normalizedPosting(id string) *servir.NormalizedPosting {
	return &servir.NormalizedPosting{
		PostingID:       id,
		Institution:     strPtr("MINISTERIO DE SALUD"),
		JobTitle:        strPtr("ASISTENTE ADMINISTRATIVO"),
		StartDate:       strPtr("2025-12-01"),
		EndDate:         strPtr("2025-12-19"),
		Salary:          floatPtr(3000),
		Vacancies:       intPtr(2),
		ContractType:    strPtr("D.LEG 1057 INDETERMINADO"),
		ContractRegime:  strPtr("D.LEG 1057"),
		TemporalNature:  strPtr("INDETERMINATE"),
		Experience:      strPtr("DOS AÑOS EN EL SECTOR PÚBLICO"),
		AcademicProfile: strPtr("BACHILLER EN ADMINISTRACIÓN"),
		Specialization:  strPtr("GESTIÓN PÚBLICA"),
		Knowledge:       strPtr("OFIMÁTICA"),
		Competencies:    strPtr("ORDEN, PROACTIVIDAD"),
		ScrapedAt:       time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNormalizedService_InsertComplete(t *testing.T) {
	t.Parallel()

	t.Run("persists all normalized fields", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewNormalizedService(db)
		ctx := context.Background()

		require.NoError(t, s.InsertComplete(ctx, normalizedPosting("738213")))

		var salary float64
		var vacancies int
		var startDate, regime, temporal string
		err := db.QueryRowContext(ctx, `
			SELECT salary_amount, number_of_vacancies, posting_start_date,
				contract_regime, contract_temporal_nature
			FROM normalized_jobs WHERE posting_unique_id = ?
		`, "738213").Scan(&salary, &vacancies, &startDate, &regime, &temporal)
		require.NoError(t, err)
		assert.Equal(t, 3000.0, salary)
		assert.Equal(t, 2, vacancies)
		assert.Equal(t, "2025-12-01", startDate)
		assert.Equal(t, "D.LEG 1057", regime)
		assert.Equal(t, "INDETERMINATE", temporal)
	})

	t.Run("duplicate posting id returns ECONFLICT", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		s := sqlite.NewNormalizedService(db)
		ctx := context.Background()

		require.NoError(t, s.InsertComplete(ctx, normalizedPosting("738213")))

		err := s.InsertComplete(ctx, normalizedPosting("738213"))
		require.Error(t, err)
		assert.Equal(t, servir.ECONFLICT, servir.ErrorCode(err))
	})
}

func TestNormalizedService_InsertIncomplete(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewNormalizedService(db)
	ctx := context.Background()

	// Failed normalizers leave nil fields; they land as NULL next to the
	// failed field list.
	p := normalizedPosting("738214")
	p.Salary = nil
	p.StartDate = nil
	p.FailedFields = []servir.FieldName{servir.FieldSalary, servir.FieldStartDate}

	require.NoError(t, s.InsertIncomplete(ctx, p, p.FailedFields))

	var salary *float64
	var startDate *string
	var failed string
	err := db.QueryRowContext(ctx, `
		SELECT salary_amount, posting_start_date, failed_fields
		FROM normalized_jobs_incomplete WHERE posting_unique_id = ?
	`, "738214").Scan(&salary, &startDate, &failed)
	require.NoError(t, err)
	assert.Nil(t, salary)
	assert.Nil(t, startDate)
	assert.Equal(t, "monthly_salary,posting_start_date", failed)
}

func TestNormalizedService_Counts(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewNormalizedService(db)
	ctx := context.Background()

	require.NoError(t, s.InsertComplete(ctx, normalizedPosting("1")))
	p := normalizedPosting("2")
	p.Vacancies = nil
	require.NoError(t, s.InsertIncomplete(ctx, p, []servir.FieldName{servir.FieldVacancies}))

	complete, incomplete, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, complete)
	assert.Equal(t, 1, incomplete)
}

func TestNormalizedService_CompleteTitles(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewNormalizedService(db)
	ctx := context.Background()

	a := normalizedPosting("1")
	a.JobTitle = strPtr("CONTADOR")
	b := normalizedPosting("2")
	b.JobTitle = strPtr("ABOGADO")
	c := normalizedPosting("3")
	c.JobTitle = strPtr("CONTADOR") // duplicate title
	require.NoError(t, s.InsertComplete(ctx, a))
	require.NoError(t, s.InsertComplete(ctx, b))
	require.NoError(t, s.InsertComplete(ctx, c))

	titles, err := s.CompleteTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABOGADO", "CONTADOR"}, titles)
}
