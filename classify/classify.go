package classify

import (
	"context"
	"sort"

	"github.com/franco-sebastiani/servir"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTopK is how many candidates each signal contributes before
	// fusion.
	DefaultTopK = 5

	// DefaultConcurrency bounds parallel classification in ClassifyAll.
	DefaultConcurrency = 4

	// resultSize is how many fused candidates a classification returns.
	resultSize = 3
)

// Classifier assigns taxonomy candidates to cleaned job titles. Category
// embeddings are read from the taxonomy cache and computed on demand when
// missing.
type Classifier struct {
	Taxonomy servir.TaxonomyService
	Embedder servir.Embedder

	// TopK overrides DefaultTopK when > 0.
	TopK int
}

type scored struct {
	category servir.Category
	lexical  float64
	semantic float64
}

// Classify scores title against every taxonomy category and returns up to
// three candidates: the union of each signal's top-K, ranked by the better
// of the two scores, ties broken by code ascending.
func (c *Classifier) Classify(ctx context.Context, title string) ([]servir.Candidate, error) {
	if title == "" {
		return nil, servir.Errorf(servir.EINVALID, "cannot classify an empty title")
	}

	topK := c.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	categories, err := c.Taxonomy.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, servir.Errorf(servir.ENOTFOUND, "taxonomy is empty")
	}

	titleVec, err := c.Embedder.Embed(ctx, title)
	if err != nil {
		return nil, err
	}

	scores := make([]scored, len(categories))
	for i, cat := range categories {
		vec, err := c.categoryEmbedding(ctx, cat)
		if err != nil {
			return nil, err
		}
		scores[i] = scored{
			category: cat,
			lexical:  LexicalScore(title, cat.Label),
			semantic: SemanticScore(titleVec, vec),
		}
	}

	return fuse(scores, topK), nil
}

// ClassifyAll classifies titles concurrently and returns candidates keyed
// by title. Unlike collection, classification has no shared session cursor,
// so titles can be scored in parallel.
func (c *Classifier) ClassifyAll(ctx context.Context, titles []string, concurrency int) (map[string][]servir.Candidate, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([][]servir.Candidate, len(titles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, title := range titles {
		g.Go(func() error {
			candidates, err := c.Classify(gctx, title)
			if err != nil {
				return err
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]servir.Candidate, len(titles))
	for i, title := range titles {
		out[title] = results[i]
	}
	return out, nil
}

// EnsureEmbeddings computes and caches embeddings for every category that
// does not have one yet, and returns how many were computed.
func (c *Classifier) EnsureEmbeddings(ctx context.Context, concurrency int) (int, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	categories, err := c.Taxonomy.Categories(ctx)
	if err != nil {
		return 0, err
	}

	computed := make([]bool, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, cat := range categories {
		g.Go(func() error {
			if _, err := c.Taxonomy.Embedding(gctx, cat.Code); err == nil {
				return nil
			} else if servir.ErrorCode(err) != servir.ENOTFOUND {
				return err
			}
			vec, err := c.Embedder.Embed(gctx, cat.Label)
			if err != nil {
				return err
			}
			if err := c.Taxonomy.SaveEmbedding(gctx, cat.Code, vec); err != nil {
				return err
			}
			computed[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for _, done := range computed {
		if done {
			n++
		}
	}
	return n, nil
}

func (c *Classifier) categoryEmbedding(ctx context.Context, cat servir.Category) ([]float32, error) {
	vec, err := c.Taxonomy.Embedding(ctx, cat.Code)
	if err == nil {
		return vec, nil
	}
	if servir.ErrorCode(err) != servir.ENOTFOUND {
		return nil, err
	}

	vec, err = c.Embedder.Embed(ctx, cat.Label)
	if err != nil {
		return nil, err
	}
	if err := c.Taxonomy.SaveEmbedding(ctx, cat.Code, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// fuse unions the top-k candidates of each signal and ranks the union by
// combined score (the better of the two), ties broken by code ascending.
func fuse(scores []scored, k int) []servir.Candidate {
	byLexical := rankIndices(scores, func(s scored) float64 { return s.lexical })
	bySemantic := rankIndices(scores, func(s scored) float64 { return s.semantic })

	picked := make(map[int]struct{}, 2*k)
	for i := 0; i < k && i < len(scores); i++ {
		picked[byLexical[i]] = struct{}{}
		picked[bySemantic[i]] = struct{}{}
	}

	candidates := make([]servir.Candidate, 0, len(picked))
	for i := range picked {
		s := scores[i]
		combined := s.lexical
		if s.semantic > combined {
			combined = s.semantic
		}
		candidates = append(candidates, servir.Candidate{
			Code:          s.category.Code,
			Label:         s.category.Label,
			LexicalScore:  s.lexical,
			SemanticScore: s.semantic,
			CombinedScore: combined,
		})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].CombinedScore != candidates[b].CombinedScore {
			return candidates[a].CombinedScore > candidates[b].CombinedScore
		}
		return candidates[a].Code < candidates[b].Code
	})

	if len(candidates) > resultSize {
		candidates = candidates[:resultSize]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}

// rankIndices returns category indices ordered by score descending, ties
// broken by code ascending.
func rankIndices(scores []scored, score func(scored) float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := score(scores[idx[a]]), score(scores[idx[b]])
		if sa != sb {
			return sa > sb
		}
		return scores[idx[a]].category.Code < scores[idx[b]].category.Code
	})
	return idx
}
