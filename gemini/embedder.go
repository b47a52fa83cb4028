// Package gemini implements text embedding using Google Gemini.
package gemini

import (
	"context"

	"github.com/franco-sebastiani/servir"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// Ensure Embedder implements servir.Embedder at compile time.
var _ servir.Embedder = (*Embedder)(nil)

// Embedder computes text embeddings using the Gemini embedding model.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns the embedding vector for text. Titles and taxonomy labels
// are compared by cosine similarity, so the semantic similarity task type is
// requested.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, servir.Errorf(servir.EINVALID, "text required")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel,
		genai.Text(text),
		&genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"},
	)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, servir.Errorf(servir.EINTERNAL, "gemini returned no embedding")
	}

	return result.Embeddings[0].Values, nil
}
