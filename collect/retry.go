package collect

import (
	"context"

	"github.com/franco-sebastiani/servir"
)

// extractWithRetry attempts to extract one listing item. If the first
// attempt yields nothing or an incomplete record, it retries exactly once
// and accepts the second result regardless of completeness. The listing
// renders items lazily, so a second read often fills fields the first read
// missed; more retries were never observed to help.
func extractWithRetry(ctx context.Context, source servir.ListingSource, index int) (*servir.RawPosting, servir.ValidationResult) {
	var posting *servir.RawPosting
	var result servir.ValidationResult

	for attempt := 0; attempt < 2; attempt++ {
		p, err := source.ExtractItem(ctx, index)
		if err != nil || p == nil {
			continue
		}

		posting = p
		result = servir.ValidatePosting(p)
		if result.Complete {
			return posting, result
		}
	}

	if posting == nil {
		return nil, servir.ValidatePosting(nil)
	}
	return posting, result
}
