package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/bloom"
	"github.com/google/uuid"
)

// expectedPostings sizes the duplicate filter. The portal carries a few
// thousand live postings; the filter leaves room for years of accumulation.
const expectedPostings = 200_000

// Compile-time interface verification.
var (
	_ servir.PostingStore = (*PostingService)(nil)
	_ servir.RawReader    = (*PostingService)(nil)
)

// PostingService implements servir.PostingStore and servir.RawReader using
// SQLite. A Bloom filter warmed from the existing rows answers most Exists
// calls without touching the database; positives are confirmed by query, so
// filter false positives cannot produce false duplicates.
type PostingService struct {
	db *DB

	mu     sync.Mutex
	filter *bloom.Filter
}

// NewPostingService creates a PostingService and warms its duplicate filter
// from the identifiers already persisted.
func NewPostingService(db *DB) (*PostingService, error) {
	s := &PostingService{
		db:     db,
		filter: bloom.NewFilter(expectedPostings, 0.001),
	}
	if err := s.warmFilter(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// hashPosting computes xxHash over every raw field and returns a hex string.
// The hash makes re-extraction drift visible during review.
func hashPosting(p *servir.RawPosting) string {
	var sb strings.Builder
	for _, name := range servir.RequiredFields {
		sb.WriteString(p.Field(name))
		sb.WriteByte(0x1f)
	}
	h := xxhash.Sum64String(sb.String())
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// Exists reports whether a posting id is persisted in either destination.
func (s *PostingService) Exists(ctx context.Context, postingID string) (bool, error) {
	s.mu.Lock()
	mayContain := s.filter.MayContain(postingID)
	s.mu.Unlock()
	if !mayContain {
		return false, nil
	}

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM job_postings WHERE posting_unique_id = ?) +
			(SELECT COUNT(*) FROM job_postings_incomplete WHERE posting_unique_id = ?)
	`, postingID, postingID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertComplete persists a posting that passed validation. It returns
// ECONFLICT if the posting id is already taken.
func (s *PostingService) InsertComplete(ctx context.Context, p *servir.RawPosting) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO job_postings (
			id, posting_unique_id, institution, job_title,
			posting_start_date, posting_end_date, monthly_salary,
			number_of_vacancies, contract_type_raw, experience_requirements,
			academic_profile, specialization, knowledge, competencies,
			content_hash, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(posting_unique_id) DO NOTHING
	`, uuid.New().String(), p.PostingID, p.Institution, p.JobTitle,
		p.StartDate, p.EndDate, p.Salary,
		p.Vacancies, p.ContractType, p.Experience,
		p.AcademicProfile, p.Specialization, p.Knowledge, p.Competencies,
		hashPosting(p), p.ScrapedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	return s.finishInsert(result, p.PostingID)
}

// InsertIncomplete persists a posting alongside its missing fields for later
// manual review. It returns ECONFLICT if the posting id is already taken.
func (s *PostingService) InsertIncomplete(ctx context.Context, p *servir.RawPosting, missing []servir.FieldName) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO job_postings_incomplete (
			id, posting_unique_id, institution, job_title,
			posting_start_date, posting_end_date, monthly_salary,
			number_of_vacancies, contract_type_raw, experience_requirements,
			academic_profile, specialization, knowledge, competencies,
			content_hash, missing_fields, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(posting_unique_id) DO NOTHING
	`, uuid.New().String(), p.PostingID, p.Institution, p.JobTitle,
		p.StartDate, p.EndDate, p.Salary,
		p.Vacancies, p.ContractType, p.Experience,
		p.AcademicProfile, p.Specialization, p.Knowledge, p.Competencies,
		hashPosting(p), joinFields(missing), p.ScrapedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	return s.finishInsert(result, p.PostingID)
}

// PendingPostings returns complete raw postings that have not been
// normalized yet, oldest first.
func (s *PostingService) PendingPostings(ctx context.Context) ([]*servir.RawPosting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT posting_unique_id, institution, job_title,
			posting_start_date, posting_end_date, monthly_salary,
			number_of_vacancies, contract_type_raw, experience_requirements,
			academic_profile, specialization, knowledge, competencies, scraped_at
		FROM job_postings p
		WHERE NOT EXISTS (
			SELECT 1 FROM normalized_jobs n WHERE n.posting_unique_id = p.posting_unique_id
		) AND NOT EXISTS (
			SELECT 1 FROM normalized_jobs_incomplete ni WHERE ni.posting_unique_id = p.posting_unique_id
		)
		ORDER BY p.scraped_at ASC, p.posting_unique_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*servir.RawPosting
	for rows.Next() {
		var p servir.RawPosting
		var scrapedAt string

		if err := rows.Scan(&p.PostingID, &p.Institution, &p.JobTitle,
			&p.StartDate, &p.EndDate, &p.Salary,
			&p.Vacancies, &p.ContractType, &p.Experience,
			&p.AcademicProfile, &p.Specialization, &p.Knowledge, &p.Competencies,
			&scrapedAt); err != nil {
			return nil, err
		}

		p.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
		if err != nil {
			return nil, err
		}
		postings = append(postings, &p)
	}
	return postings, rows.Err()
}

// Counts returns how many postings sit in the complete and incomplete
// destinations.
func (s *PostingService) Counts(ctx context.Context) (complete, incomplete int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_postings").Scan(&complete); err != nil {
		return 0, 0, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_postings_incomplete").Scan(&incomplete); err != nil {
		return 0, 0, err
	}
	return complete, incomplete, nil
}

// finishInsert converts a conflict-suppressed insert into ECONFLICT and
// records successful identifiers in the filter.
func (s *PostingService) finishInsert(result sql.Result, postingID string) error {
	if err := conflictToError(result, postingID); err != nil {
		return err
	}
	s.mu.Lock()
	s.filter.Add(postingID)
	s.mu.Unlock()
	return nil
}

func (s *PostingService) warmFilter(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT posting_unique_id FROM job_postings
		UNION
		SELECT posting_unique_id FROM job_postings_incomplete
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		s.filter.Add(id)
	}
	return rows.Err()
}
