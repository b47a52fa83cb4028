package normalize

import (
	"strings"

	"github.com/franco-sebastiani/servir"
)

// PostingID canonicalizes a posting identifier by keeping its digits only
// ("738213B" → "738213"). An identifier with no digits cannot key a record
// and is a failure.
func PostingID(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", servir.Errorf(servir.EINVALID, "posting id is empty or invalid")
	}

	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", servir.Errorf(servir.EINVALID, "no digits in posting id %q", raw)
	}
	return b.String(), nil
}

// Record applies every field normalizer to one raw posting and assembles a
// normalized posting with the set of fields whose normalizer failed. A
// posting whose identifier cannot itself be parsed is rejected outright with
// an EINVALID error rather than silently dropped.
func Record(raw *servir.RawPosting) (*servir.NormalizedPosting, error) {
	if raw == nil {
		return nil, servir.Errorf(servir.EINVALID, "posting is nil")
	}

	id, err := PostingID(raw.PostingID)
	if err != nil {
		return nil, err
	}

	p := &servir.NormalizedPosting{
		PostingID: id,
		ScrapedAt: raw.ScrapedAt,
	}

	fail := func(name servir.FieldName) {
		p.FailedFields = append(p.FailedFields, name)
	}

	if v, err := Title(raw.JobTitle); err != nil {
		fail(servir.FieldJobTitle)
	} else {
		p.JobTitle = &v
	}
	if v, err := Text(raw.Institution); err != nil {
		fail(servir.FieldInstitution)
	} else {
		p.Institution = &v
	}
	if v, err := Date(raw.StartDate); err != nil {
		fail(servir.FieldStartDate)
	} else {
		p.StartDate = &v
	}
	if v, err := Date(raw.EndDate); err != nil {
		fail(servir.FieldEndDate)
	} else {
		p.EndDate = &v
	}
	if v, err := Salary(raw.Salary); err != nil {
		fail(servir.FieldSalary)
	} else {
		p.Salary = &v
	}
	if v, err := Vacancies(raw.Vacancies); err != nil {
		fail(servir.FieldVacancies)
	} else {
		p.Vacancies = &v
	}
	if v, err := ContractType(raw.ContractType); err != nil {
		fail(servir.FieldContractType)
	} else {
		p.ContractType = &v
		if class, err := ContractClassification(v); err == nil {
			p.ContractRegime = &class.Regime
			p.TemporalNature = &class.TemporalNature
		}
	}

	// Requirement fields share the generic free-text cleaning. The
	// specialization field additionally goes through title cleaning so it
	// can feed the classifier.
	if v, err := Text(raw.Experience); err != nil {
		fail(servir.FieldExperience)
	} else {
		p.Experience = &v
	}
	if v, err := Text(raw.AcademicProfile); err != nil {
		fail(servir.FieldAcademicProfile)
	} else {
		p.AcademicProfile = &v
	}
	if v, err := Title(raw.Specialization); err != nil {
		fail(servir.FieldSpecialization)
	} else {
		p.Specialization = &v
	}
	if v, err := Text(raw.Knowledge); err != nil {
		fail(servir.FieldKnowledge)
	} else {
		p.Knowledge = &v
	}
	if v, err := Text(raw.Competencies); err != nil {
		fail(servir.FieldCompetencies)
	} else {
		p.Competencies = &v
	}

	return p, nil
}
