package normalize_test

import (
	"context"
	"testing"
	"time"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/mock"
	"github.com/franco-sebastiani/servir/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFixture() *servir.RawPosting {
	return &servir.RawPosting{
		PostingID:       "738119",
		Institution:     "  MINISTERIO PÚBLICO ",
		JobTitle:        "UNA ASISTENTE (A) II",
		StartDate:       "01/12/2025",
		EndDate:         "19/12/2025",
		Salary:          "S/. 6,000.00",
		Vacancies:       "2",
		ContractType:    "D.LEG 1057 - DETERMINADO (SUPLENCIA) 014",
		Experience:      "- Dos años de experiencia general",
		AcademicProfile: "Título universitario en Derecho",
		Specialization:  "ASISTENTE LEGAL I",
		Knowledge:       "Ofimática",
		Competencies:    "Trabajo en equipo",
		ScrapedAt:       time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("every field normalizes on a clean posting", func(t *testing.T) {
		t.Parallel()

		p, err := normalize.Record(rawFixture())

		require.NoError(t, err)
		assert.Empty(t, p.FailedFields)
		assert.Equal(t, "738119", p.PostingID)
		require.NotNil(t, p.JobTitle)
		assert.Equal(t, "ASISTENTE", *p.JobTitle)
		require.NotNil(t, p.Institution)
		assert.Equal(t, "MINISTERIO PÚBLICO", *p.Institution)
		require.NotNil(t, p.StartDate)
		assert.Equal(t, "2025-12-01", *p.StartDate)
		require.NotNil(t, p.EndDate)
		assert.Equal(t, "2025-12-19", *p.EndDate)
		require.NotNil(t, p.Salary)
		assert.Equal(t, 6000.0, *p.Salary)
		require.NotNil(t, p.Vacancies)
		assert.Equal(t, 2, *p.Vacancies)
		require.NotNil(t, p.ContractType)
		assert.Equal(t, "D.LEG 1057 DETERMINADO SUPLENCIA", *p.ContractType)
		require.NotNil(t, p.ContractRegime)
		assert.Equal(t, "D.LEG 1057", *p.ContractRegime)
		require.NotNil(t, p.TemporalNature)
		assert.Equal(t, normalize.TemporalReplacement, *p.TemporalNature)
		require.NotNil(t, p.Experience)
		assert.Equal(t, "Dos años de experiencia general", *p.Experience)
		require.NotNil(t, p.Specialization)
		assert.Equal(t, "ASISTENTE LEGAL", *p.Specialization)
		assert.Equal(t, rawFixture().ScrapedAt, p.ScrapedAt)
	})

	t.Run("single failed field is reported, not fatal", func(t *testing.T) {
		t.Parallel()

		raw := rawFixture()
		raw.Salary = "seis mil"

		p, err := normalize.Record(raw)

		require.NoError(t, err)
		assert.Equal(t, []servir.FieldName{servir.FieldSalary}, p.FailedFields)
		assert.Nil(t, p.Salary)
		assert.NotNil(t, p.JobTitle)
	})

	t.Run("failed contract type leaves its classification unset", func(t *testing.T) {
		t.Parallel()

		raw := rawFixture()
		raw.ContractType = "REGIMEN ESPECIAL 999"

		p, err := normalize.Record(raw)

		require.NoError(t, err)
		assert.Equal(t, []servir.FieldName{servir.FieldContractType}, p.FailedFields)
		assert.Nil(t, p.ContractType)
		assert.Nil(t, p.ContractRegime)
		assert.Nil(t, p.TemporalNature)
	})

	t.Run("identifier is canonicalized to digits", func(t *testing.T) {
		t.Parallel()

		raw := rawFixture()
		raw.PostingID = "738213B"

		p, err := normalize.Record(raw)

		require.NoError(t, err)
		assert.Equal(t, "738213", p.PostingID)
	})

	t.Run("unparsable identifier rejects the record outright", func(t *testing.T) {
		t.Parallel()

		raw := rawFixture()
		raw.PostingID = "---"

		_, err := normalize.Record(raw)

		require.Error(t, err)
		assert.Equal(t, servir.EINVALID, servir.ErrorCode(err))
	})

	t.Run("nil posting is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := normalize.Record(nil)

		require.Error(t, err)
		assert.Equal(t, servir.EINVALID, servir.ErrorCode(err))
	})
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("routes records by failed fields", func(t *testing.T) {
		t.Parallel()

		incompleteRaw := rawFixture()
		incompleteRaw.PostingID = "738120"
		incompleteRaw.StartDate = "31/02/2025"

		var completeIDs []string
		var incompleteFailed [][]servir.FieldName
		runner := &normalize.Runner{
			Source: &mock.RawReader{
				PendingPostingsFn: func(context.Context) ([]*servir.RawPosting, error) {
					return []*servir.RawPosting{rawFixture(), incompleteRaw}, nil
				},
			},
			Dest: &mock.NormalizedStore{
				InsertCompleteFn: func(_ context.Context, p *servir.NormalizedPosting) error {
					completeIDs = append(completeIDs, p.PostingID)
					return nil
				},
				InsertIncompleteFn: func(_ context.Context, p *servir.NormalizedPosting, failed []servir.FieldName) error {
					incompleteFailed = append(incompleteFailed, failed)
					return nil
				},
			},
		}

		res, err := runner.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, res.Processed)
		assert.Equal(t, 1, res.Complete)
		assert.Equal(t, 1, res.Incomplete)
		assert.Equal(t, 0, res.Rejected)
		assert.Equal(t, []string{"738119"}, completeIDs)
		require.Len(t, incompleteFailed, 1)
		assert.Equal(t, []servir.FieldName{servir.FieldStartDate}, incompleteFailed[0])
	})

	t.Run("unparsable identifier is counted as rejected", func(t *testing.T) {
		t.Parallel()

		bad := rawFixture()
		bad.PostingID = "N/A"

		runner := &normalize.Runner{
			Source: &mock.RawReader{
				PendingPostingsFn: func(context.Context) ([]*servir.RawPosting, error) {
					return []*servir.RawPosting{bad}, nil
				},
			},
			Dest: &mock.NormalizedStore{},
		}

		res, err := runner.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, res.Rejected)
		assert.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "N/A")
	})

	t.Run("store error is logged per record, not fatal", func(t *testing.T) {
		t.Parallel()

		runner := &normalize.Runner{
			Source: &mock.RawReader{
				PendingPostingsFn: func(context.Context) ([]*servir.RawPosting, error) {
					return []*servir.RawPosting{rawFixture()}, nil
				},
			},
			Dest: &mock.NormalizedStore{
				InsertCompleteFn: func(context.Context, *servir.NormalizedPosting) error {
					return servir.Errorf(servir.EINTERNAL, "disk full")
				},
			},
		}

		res, err := runner.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, res.Rejected)
		assert.Equal(t, 0, res.Complete)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "disk full")
	})
}
