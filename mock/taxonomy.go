package mock

import (
	"context"

	"github.com/franco-sebastiani/servir"
)

var _ servir.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of servir.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

var _ servir.TaxonomyService = (*TaxonomyService)(nil)

// TaxonomyService is a mock implementation of servir.TaxonomyService.
type TaxonomyService struct {
	CategoriesFn    func(ctx context.Context) ([]servir.Category, error)
	EmbeddingFn     func(ctx context.Context, code string) ([]float32, error)
	SaveEmbeddingFn func(ctx context.Context, code string, vec []float32) error
}

func (s *TaxonomyService) Categories(ctx context.Context) ([]servir.Category, error) {
	return s.CategoriesFn(ctx)
}

func (s *TaxonomyService) Embedding(ctx context.Context, code string) ([]float32, error) {
	return s.EmbeddingFn(ctx, code)
}

func (s *TaxonomyService) SaveEmbedding(ctx context.Context, code string, vec []float32) error {
	return s.SaveEmbeddingFn(ctx, code, vec)
}
