package servir_test

import (
	"testing"

	"github.com/franco-sebastiani/servir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePosting(t *testing.T) {
	t.Parallel()

	complete := func() *servir.RawPosting {
		return &servir.RawPosting{
			PostingID:       "738119",
			Institution:     "MINISTERIO PUBLICO",
			JobTitle:        "UN ASISTENTE (A) II",
			StartDate:       "01/12/2025",
			EndDate:         "19/12/2025",
			Salary:          "S/. 6,000.00",
			Vacancies:       "1",
			ContractType:    "D.LEG 1057 - DETERMINADO (NECESIDAD TRANSITORIA) 001",
			Experience:      "Dos anios de experiencia general",
			AcademicProfile: "Titulo universitario",
			Specialization:  "Derecho administrativo",
			Knowledge:       "Ofimatica",
			Competencies:    "Trabajo en equipo",
		}
	}

	t.Run("complete posting has no missing fields", func(t *testing.T) {
		t.Parallel()

		res := servir.ValidatePosting(complete())

		assert.True(t, res.Complete)
		assert.Empty(t, res.Missing)
	})

	t.Run("reports exactly the missing field", func(t *testing.T) {
		t.Parallel()

		p := complete()
		p.Salary = ""

		res := servir.ValidatePosting(p)

		assert.False(t, res.Complete)
		assert.Equal(t, []servir.FieldName{servir.FieldSalary}, res.Missing)
	})

	t.Run("nil posting is missing every required field", func(t *testing.T) {
		t.Parallel()

		res := servir.ValidatePosting(nil)

		assert.False(t, res.Complete)
		assert.Equal(t, servir.RequiredFields, res.Missing)
	})
}

func TestRawPosting_Field(t *testing.T) {
	t.Parallel()

	p := &servir.RawPosting{PostingID: "42", Knowledge: "SQL"}

	assert.Equal(t, "42", p.Field(servir.FieldPostingID))
	assert.Equal(t, "SQL", p.Field(servir.FieldKnowledge))
	assert.Equal(t, "", p.Field(servir.FieldSalary))
	assert.Equal(t, "", p.Field(servir.FieldName("unknown")))
}

func TestRawPosting_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires posting id", func(t *testing.T) {
		t.Parallel()

		err := (&servir.RawPosting{}).Validate()

		require.Error(t, err)
		assert.Equal(t, servir.EINVALID, servir.ErrorCode(err))
	})

	t.Run("accepts posting with id", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, (&servir.RawPosting{PostingID: "738119"}).Validate())
	})
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", servir.ErrorCode(nil))
	assert.Equal(t, servir.ENOTFOUND, servir.ErrorCode(servir.Errorf(servir.ENOTFOUND, "gone")))
	assert.Equal(t, servir.EINTERNAL, servir.ErrorCode(assert.AnError))
}
