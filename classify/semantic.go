package classify

import "math"

// SemanticScore returns the cosine similarity of two embedding vectors
// scaled to 0-100. Negative similarity clamps to 0 so the scale matches the
// lexical score. A zero vector or a dimension mismatch scores 0.
func SemanticScore(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim <= 0 {
		return 0
	}
	return sim * 100
}
