package servir

import (
	"context"
	"time"
)

// FieldName identifies one of the raw posting fields.
type FieldName string

// Raw posting field names, matching the labels on the SERVIR detail page.
const (
	FieldPostingID       FieldName = "posting_unique_id"
	FieldInstitution     FieldName = "institution"
	FieldJobTitle        FieldName = "job_title"
	FieldStartDate       FieldName = "posting_start_date"
	FieldEndDate         FieldName = "posting_end_date"
	FieldSalary          FieldName = "monthly_salary"
	FieldVacancies       FieldName = "number_of_vacancies"
	FieldContractType    FieldName = "contract_type_raw"
	FieldExperience      FieldName = "experience_requirements"
	FieldAcademicProfile FieldName = "academic_profile"
	FieldSpecialization  FieldName = "specialization"
	FieldKnowledge       FieldName = "knowledge"
	FieldCompetencies    FieldName = "competencies"
)

// RequiredFields is the fixed set of fields a posting must carry to be
// considered complete at collection time. Order determines reporting order.
var RequiredFields = []FieldName{
	FieldPostingID,
	FieldInstitution,
	FieldJobTitle,
	FieldStartDate,
	FieldEndDate,
	FieldSalary,
	FieldVacancies,
	FieldContractType,
	FieldExperience,
	FieldAcademicProfile,
	FieldSpecialization,
	FieldKnowledge,
	FieldCompetencies,
}

// RawPosting is one job posting exactly as extracted from the listing,
// before any normalization. Empty strings mean the field was absent on the
// page (or extraction failed for it).
type RawPosting struct {
	PostingID       string    `json:"postingUniqueId"`
	Institution     string    `json:"institution"`
	JobTitle        string    `json:"jobTitle"`
	StartDate       string    `json:"postingStartDate"`
	EndDate         string    `json:"postingEndDate"`
	Salary          string    `json:"monthlySalary"`
	Vacancies       string    `json:"numberOfVacancies"`
	ContractType    string    `json:"contractTypeRaw"`
	Experience      string    `json:"experienceRequirements"`
	AcademicProfile string    `json:"academicProfile"`
	Specialization  string    `json:"specialization"`
	Knowledge       string    `json:"knowledge"`
	Competencies    string    `json:"competencies"`
	ScrapedAt       time.Time `json:"scrapedAt"`
}

// Field returns the raw value of the named field.
func (p *RawPosting) Field(name FieldName) string {
	switch name {
	case FieldPostingID:
		return p.PostingID
	case FieldInstitution:
		return p.Institution
	case FieldJobTitle:
		return p.JobTitle
	case FieldStartDate:
		return p.StartDate
	case FieldEndDate:
		return p.EndDate
	case FieldSalary:
		return p.Salary
	case FieldVacancies:
		return p.Vacancies
	case FieldContractType:
		return p.ContractType
	case FieldExperience:
		return p.Experience
	case FieldAcademicProfile:
		return p.AcademicProfile
	case FieldSpecialization:
		return p.Specialization
	case FieldKnowledge:
		return p.Knowledge
	case FieldCompetencies:
		return p.Competencies
	}
	return ""
}

// Validate returns an error if the posting cannot be persisted at all.
// Completeness is a separate, weaker notion; see ValidatePosting.
func (p *RawPosting) Validate() error {
	if p.PostingID == "" {
		return Errorf(EINVALID, "posting id required")
	}
	return nil
}

// ValidationResult classifies a raw posting as complete or incomplete
// against the required-field set. Derived, never stored.
type ValidationResult struct {
	Complete bool
	Missing  []FieldName
}

// ValidatePosting checks presence of every required field on the raw
// posting. Absence is judged purely on emptiness of the raw string; no
// normalization happens here.
func ValidatePosting(p *RawPosting) ValidationResult {
	if p == nil {
		missing := make([]FieldName, len(RequiredFields))
		copy(missing, RequiredFields)
		return ValidationResult{Complete: false, Missing: missing}
	}

	var missing []FieldName
	for _, name := range RequiredFields {
		if p.Field(name) == "" {
			missing = append(missing, name)
		}
	}
	return ValidationResult{Complete: len(missing) == 0, Missing: missing}
}

// NormalizedPosting is a raw posting after field normalization. Nil pointer
// fields mean the corresponding normalizer failed; FailedFields lists them.
// A normalized posting is immutable once produced: correcting one means
// re-ingesting from source.
type NormalizedPosting struct {
	PostingID       string    `json:"postingUniqueId"`
	Institution     *string   `json:"institution"`
	JobTitle        *string   `json:"jobTitle"`
	StartDate       *string   `json:"postingStartDate"` // ISO YYYY-MM-DD
	EndDate         *string   `json:"postingEndDate"`   // ISO YYYY-MM-DD
	Salary          *float64  `json:"salaryAmount"`
	Vacancies       *int      `json:"numberOfVacancies"`
	ContractType    *string   `json:"contractType"`           // canonical category
	ContractRegime  *string   `json:"contractRegime"`         // legal regime of the category
	TemporalNature  *string   `json:"contractTemporalNature"` // fixed-term vs permanent
	Experience      *string   `json:"experienceRequirements"`
	AcademicProfile *string   `json:"academicProfile"`
	Specialization  *string   `json:"specialization"`
	Knowledge       *string   `json:"knowledge"`
	Competencies    *string   `json:"competencies"`
	ScrapedAt       time.Time `json:"scrapedAt"`

	FailedFields []FieldName `json:"failedFields"`
}

// Validate returns an error if the normalized posting contains invalid fields.
func (p *NormalizedPosting) Validate() error {
	if p.PostingID == "" {
		return Errorf(EINVALID, "posting id required")
	}
	return nil
}

// Outcome is the terminal result of processing one listing item.
type Outcome string

// Collection outcomes, in decision priority order.
const (
	OutcomeFailed          Outcome = "failed"
	OutcomeDuplicate       Outcome = "duplicate"
	OutcomeSavedComplete   Outcome = "saved_complete"
	OutcomeSavedIncomplete Outcome = "saved_incomplete"
)

// PostingStore persists raw postings into the complete and incomplete
// destinations. Writes are independently transactional per record. The
// store's uniqueness constraint on posting id is the sole correctness
// backstop against concurrent runs: an insert that violates it returns
// ECONFLICT and callers must treat that as duplicate, not as an error.
type PostingStore interface {
	// Exists reports whether a posting id is already persisted in either
	// the complete or the incomplete destination.
	Exists(ctx context.Context, postingID string) (bool, error)

	// InsertComplete persists a posting that passed validation.
	InsertComplete(ctx context.Context, p *RawPosting) error

	// InsertIncomplete persists a posting alongside its missing fields
	// for later manual review.
	InsertIncomplete(ctx context.Context, p *RawPosting, missing []FieldName) error
}

// RawReader lists raw postings pending normalization.
type RawReader interface {
	// PendingPostings returns raw postings (from the complete destination)
	// that have not yet been normalized.
	PendingPostings(ctx context.Context) ([]*RawPosting, error)
}

// NormalizedStore persists normalized postings, routed by failed fields.
type NormalizedStore interface {
	// InsertComplete persists a posting whose every field normalized.
	InsertComplete(ctx context.Context, p *NormalizedPosting) error

	// InsertIncomplete persists a posting with failed fields, tagged for
	// manual review.
	InsertIncomplete(ctx context.Context, p *NormalizedPosting, failed []FieldName) error
}
