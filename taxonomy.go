package servir

import "context"

// Category is one entry of the fixed ISCO-08 reference taxonomy: a level-4
// occupational code and its text description.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Candidate is one ranked classification candidate for a cleaned job title.
// Candidates are ephemeral: produced per classification call, persisted only
// if a caller chooses to.
type Candidate struct {
	Code          string  `json:"code"`
	Label         string  `json:"label"`
	LexicalScore  float64 `json:"lexicalScore"`  // 0-100
	SemanticScore float64 `json:"semanticScore"` // 0-100
	CombinedScore float64 `json:"combinedScore"` // max of the two
	Rank          int     `json:"rank"`          // 1-based
}

// Embedder computes a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TaxonomyService provides the reference taxonomy and a cache of
// precomputed per-category description embeddings.
type TaxonomyService interface {
	// Categories returns every taxonomy entry, ordered by code.
	Categories(ctx context.Context) ([]Category, error)

	// Embedding returns the cached embedding for a category code.
	// Returns ENOTFOUND if no embedding has been stored.
	Embedding(ctx context.Context, code string) ([]float32, error)

	// SaveEmbedding caches the embedding for a category code.
	SaveEmbedding(ctx context.Context, code string, vec []float32) error
}
