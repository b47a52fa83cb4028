package normalize

import (
	"context"
	"fmt"

	"github.com/franco-sebastiani/servir"
)

// Runner drives batch normalization: it reads raw postings pending
// normalization, applies the record normalizer to each, and routes the
// result to the complete or incomplete destination.
type Runner struct {
	Source servir.RawReader
	Dest   servir.NormalizedStore
}

// RunnerResult summarizes one normalization run.
type RunnerResult struct {
	Processed  int
	Complete   int
	Incomplete int
	Rejected   int // unparsable identifier or nil record

	// Errors holds one message per rejected or unwritable record.
	Errors []string
}

// Run normalizes every pending raw posting. Per-field failures route the
// record to the incomplete destination; only an unparsable identifier or a
// store error rejects a record.
func (r *Runner) Run(ctx context.Context) (*RunnerResult, error) {
	postings, err := r.Source.PendingPostings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending postings: %w", err)
	}

	res := &RunnerResult{}
	for _, raw := range postings {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		normalized, err := Record(raw)
		if err != nil {
			res.Rejected++
			res.Errors = append(res.Errors, fmt.Sprintf("posting %q: %s", raw.PostingID, servir.ErrorMessage(err)))
			continue
		}

		if len(normalized.FailedFields) == 0 {
			err = r.Dest.InsertComplete(ctx, normalized)
		} else {
			err = r.Dest.InsertIncomplete(ctx, normalized, normalized.FailedFields)
		}
		if err != nil {
			res.Rejected++
			res.Errors = append(res.Errors, fmt.Sprintf("posting %q: %s", normalized.PostingID, servir.ErrorMessage(err)))
			continue
		}

		if len(normalized.FailedFields) == 0 {
			res.Complete++
		} else {
			res.Incomplete++
		}
	}

	return res, nil
}
