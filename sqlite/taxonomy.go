package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"
	"time"

	"github.com/franco-sebastiani/servir"
)

// Compile-time interface verification.
var _ servir.TaxonomyService = (*TaxonomyService)(nil)

// TaxonomyService implements servir.TaxonomyService using SQLite. Category
// embeddings are stored as little-endian float32 BLOBs so the reference
// taxonomy only has to be embedded once.
type TaxonomyService struct {
	db *DB
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(db *DB) *TaxonomyService {
	return &TaxonomyService{db: db}
}

// LoadCategories upserts reference taxonomy entries. Labels may be revised
// between taxonomy editions; codes are stable.
func (s *TaxonomyService) LoadCategories(ctx context.Context, categories []servir.Category) error {
	for _, cat := range categories {
		if cat.Code == "" || cat.Label == "" {
			return servir.Errorf(servir.EINVALID, "taxonomy entry requires code and label")
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO taxonomy_categories (code, label) VALUES (?, ?)
			ON CONFLICT(code) DO UPDATE SET label = excluded.label
		`, cat.Code, cat.Label)
		if err != nil {
			return err
		}
	}
	return nil
}

// Categories returns every taxonomy entry, ordered by code.
func (s *TaxonomyService) Categories(ctx context.Context) ([]servir.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT code, label FROM taxonomy_categories ORDER BY code ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []servir.Category
	for rows.Next() {
		var cat servir.Category
		if err := rows.Scan(&cat.Code, &cat.Label); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Embedding returns the cached embedding for a category code.
func (s *TaxonomyService) Embedding(ctx context.Context, code string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT vector FROM taxonomy_embeddings WHERE code = ?", code,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, servir.Errorf(servir.ENOTFOUND, "no embedding for category %s", code)
	}
	if err != nil {
		return nil, err
	}
	return decodeVector(blob)
}

// SaveEmbedding caches the embedding for a category code, replacing any
// previous one.
func (s *TaxonomyService) SaveEmbedding(ctx context.Context, code string, vec []float32) error {
	if len(vec) == 0 {
		return servir.Errorf(servir.EINVALID, "embedding vector required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO taxonomy_embeddings (code, vector, created_at) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET vector = excluded.vector, created_at = excluded.created_at
	`, code, encodeVector(vec), time.Now().UTC().Format(time.RFC3339))
	return err
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, servir.Errorf(servir.EINTERNAL, "embedding blob has invalid length %d", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
