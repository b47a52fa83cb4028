package sqlite

import (
	"context"
	"time"

	"github.com/franco-sebastiani/servir"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ servir.NormalizedStore = (*NormalizedService)(nil)

// NormalizedService implements servir.NormalizedStore using SQLite. Failed
// normalizer fields are stored as NULL; the incomplete table additionally
// records which normalizers failed, for manual review.
type NormalizedService struct {
	db *DB
}

// NewNormalizedService creates a new NormalizedService.
func NewNormalizedService(db *DB) *NormalizedService {
	return &NormalizedService{db: db}
}

// InsertComplete persists a posting whose every field normalized. It
// returns ECONFLICT if the posting id was already normalized.
func (s *NormalizedService) InsertComplete(ctx context.Context, p *servir.NormalizedPosting) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO normalized_jobs (
			id, posting_unique_id, institution, job_title,
			posting_start_date, posting_end_date, salary_amount,
			number_of_vacancies, contract_type, contract_regime,
			contract_temporal_nature, experience_requirements,
			academic_profile, specialization, knowledge, competencies,
			scraped_at, normalized_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(posting_unique_id) DO NOTHING
	`, uuid.New().String(), p.PostingID, p.Institution, p.JobTitle,
		p.StartDate, p.EndDate, p.Salary,
		p.Vacancies, p.ContractType, p.ContractRegime,
		p.TemporalNature, p.Experience,
		p.AcademicProfile, p.Specialization, p.Knowledge, p.Competencies,
		p.ScrapedAt.Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return conflictToError(result, p.PostingID)
}

// InsertIncomplete persists a posting with failed fields, tagged for manual
// review. It returns ECONFLICT if the posting id was already normalized.
func (s *NormalizedService) InsertIncomplete(ctx context.Context, p *servir.NormalizedPosting, failed []servir.FieldName) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO normalized_jobs_incomplete (
			id, posting_unique_id, institution, job_title,
			posting_start_date, posting_end_date, salary_amount,
			number_of_vacancies, contract_type, contract_regime,
			contract_temporal_nature, experience_requirements,
			academic_profile, specialization, knowledge, competencies,
			failed_fields, scraped_at, normalized_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(posting_unique_id) DO NOTHING
	`, uuid.New().String(), p.PostingID, p.Institution, p.JobTitle,
		p.StartDate, p.EndDate, p.Salary,
		p.Vacancies, p.ContractType, p.ContractRegime,
		p.TemporalNature, p.Experience,
		p.AcademicProfile, p.Specialization, p.Knowledge, p.Competencies,
		joinFields(failed), p.ScrapedAt.Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return conflictToError(result, p.PostingID)
}

// Counts returns how many postings sit in the complete and incomplete
// normalized tables.
func (s *NormalizedService) Counts(ctx context.Context) (complete, incomplete int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM normalized_jobs").Scan(&complete); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM normalized_jobs_incomplete").Scan(&incomplete); err != nil {
		return 0, 0, err
	}
	return complete, incomplete, nil
}

// CompleteTitles returns the distinct normalized job titles from the
// complete table, for batch classification.
func (s *NormalizedService) CompleteTitles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT job_title FROM normalized_jobs
		WHERE job_title IS NOT NULL
		ORDER BY job_title ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}
