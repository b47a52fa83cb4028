// Package collect drives full-listing traversal: page-by-page item
// extraction with retry, duplicate detection against the posting store, and
// early termination once the run re-enters previously collected territory.
package collect

import (
	"context"

	"github.com/franco-sebastiani/servir"
	"golang.org/x/time/rate"
)

// DefaultDuplicateThreshold is the number of consecutive duplicates after
// which a run stops early. The listing is stably ordered, so a run of
// duplicates means the traversal has reached records collected by a previous
// run and continuing only wastes work. This is a heuristic: an insertion at
// the front of the listing could in principle stop a run before genuinely
// new postings further in; the threshold is configurable for that reason.
const DefaultDuplicateThreshold = 10

// ItemEvent reports the outcome of one processed listing item.
type ItemEvent struct {
	Page      int
	Index     int
	PostingID string
	Outcome   servir.Outcome
	Err       error
}

// ProgressFunc is a callback invoked after each item is processed.
type ProgressFunc func(event ItemEvent)

// Collector orchestrates one collection run over a paginated listing.
// The run is strictly sequential: the listing session is a single shared
// cursor that cannot be advanced concurrently.
type Collector struct {
	Source servir.ListingSource
	Store  servir.PostingStore

	// Limiter, if set, paces item extraction.
	Limiter *rate.Limiter

	// DuplicateThreshold overrides DefaultDuplicateThreshold when > 0.
	DuplicateThreshold int

	// MaxPages, when > 0, caps the number of pages walked in this run.
	MaxPages int

	// MaxErrors bounds the run's error log (DefaultMaxErrors when <= 0).
	MaxErrors int

	// Progress, if set, receives an event per processed item.
	Progress ProgressFunc
}

// Run walks the listing to completion or to a confident early stop and
// returns the run's statistics. The returned error is non-nil only for
// fatal conditions (listing unavailable); per-item failures are recorded in
// the statistics and the run continues. Records committed before any stop
// or cancellation are never retracted.
func (c *Collector) Run(ctx context.Context) (*Stats, error) {
	stats := NewStats(c.MaxErrors)

	threshold := c.DuplicateThreshold
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}

	total, err := c.Source.TotalPages(ctx)
	if err != nil {
		stats.finish(TerminationAborted)
		return stats, servir.Errorf(servir.EUNAVAILABLE, "cannot determine page count: %s", errText(err))
	}
	if total <= 0 {
		stats.finish(TerminationAborted)
		return stats, servir.Errorf(servir.EUNAVAILABLE, "listing reports no pages")
	}

	last := total
	if c.MaxPages > 0 && c.MaxPages < last {
		last = c.MaxPages
	}

	for page := 1; page <= last; page++ {
		if err := ctx.Err(); err != nil {
			stats.recordError("run canceled on page %d: %v", page, err)
			stats.finish(TerminationAborted)
			return stats, nil
		}

		// The listing's page count drifts while postings are published
		// and withdrawn during a long run; trust the latest reading over
		// the initial one.
		if t, err := c.Source.TotalPages(ctx); err == nil && t > 0 && t != total {
			total = t
			last = total
			if c.MaxPages > 0 && c.MaxPages < last {
				last = c.MaxPages
			}
		}

		// A page whose items cannot be enumerated did not load; skipping
		// it would silently drop its postings, so the run halts like any
		// other navigation failure.
		count, err := c.Source.ItemCount(ctx)
		if err != nil {
			stats.recordError("page %d: cannot count items: %s", page, errText(err))
			stats.finish(TerminationAborted)
			return stats, nil
		}

		for index := 0; index < count; index++ {
			if err := ctx.Err(); err != nil {
				stats.recordError("run canceled on page %d: %v", page, err)
				stats.finish(TerminationAborted)
				return stats, nil
			}
			if c.Limiter != nil {
				if err := c.Limiter.Wait(ctx); err != nil {
					stats.recordError("run canceled on page %d: %v", page, err)
					stats.finish(TerminationAborted)
					return stats, nil
				}
			}

			stopped := c.processItem(ctx, stats, page, index, threshold)
			if stopped {
				stats.finish(TerminationStoppedEarly)
				return stats, nil
			}
		}

		stats.recordPageProcessed()

		if page >= last {
			continue
		}
		advanced, err := c.Source.NextPage(ctx)
		if err != nil {
			stats.recordError("page %d: navigation failed: %s", page, errText(err))
			stats.finish(TerminationAborted)
			return stats, nil
		}
		if !advanced {
			// The next-page control is disabled before the advertised
			// last page: the listing shrank under us.
			stats.recordError("page %d: next-page control disabled before page %d", page, total)
			stats.finish(TerminationAborted)
			return stats, nil
		}
	}

	stats.finish(TerminationDone)
	return stats, nil
}

// processItem extracts, decides, and persists one item. It returns true if
// the consecutive-duplicate threshold was reached and the run must stop.
func (c *Collector) processItem(ctx context.Context, stats *Stats, page, index, threshold int) bool {
	stats.recordEncountered()

	posting, validation := extractWithRetry(ctx, c.Source, index)

	outcome, postingID, itemErr := c.decide(ctx, stats, page, index, posting, validation)

	if c.Progress != nil {
		c.Progress(ItemEvent{
			Page:      page,
			Index:     index,
			PostingID: postingID,
			Outcome:   outcome,
			Err:       itemErr,
		})
	}

	return outcome == servir.OutcomeDuplicate && stats.ConsecutiveDuplicates >= threshold
}

// decide applies the outcome decision in priority order: nothing extracted,
// missing identifier, duplicate, then save complete or incomplete.
func (c *Collector) decide(ctx context.Context, stats *Stats, page, index int, posting *servir.RawPosting, validation servir.ValidationResult) (servir.Outcome, string, error) {
	if posting == nil {
		err := servir.Errorf(servir.EINVALID, "page %d item %d: extraction returned nothing", page, index)
		stats.recordFailed()
		stats.recordError("%s", servir.ErrorMessage(err))
		return servir.OutcomeFailed, "", err
	}

	if posting.PostingID == "" {
		err := servir.Errorf(servir.EINVALID, "page %d item %d: missing identifier", page, index)
		stats.recordFailed()
		stats.recordError("%s", servir.ErrorMessage(err))
		return servir.OutcomeFailed, "", err
	}

	exists, err := c.Store.Exists(ctx, posting.PostingID)
	if err != nil {
		stats.recordFailed()
		stats.recordError("page %d item %d: store lookup: %s", page, index, errText(err))
		return servir.OutcomeFailed, posting.PostingID, err
	}
	if exists {
		stats.recordDuplicate()
		return servir.OutcomeDuplicate, posting.PostingID, nil
	}

	if validation.Complete {
		err = c.Store.InsertComplete(ctx, posting)
	} else {
		err = c.Store.InsertIncomplete(ctx, posting, validation.Missing)
	}
	if err != nil {
		// A uniqueness violation means another run won the race for this
		// identifier. That is the steady-state duplicate signal, not an
		// error (the store's constraint is the correctness backstop).
		if servir.ErrorCode(err) == servir.ECONFLICT {
			stats.recordDuplicate()
			return servir.OutcomeDuplicate, posting.PostingID, nil
		}
		stats.recordFailed()
		stats.recordError("page %d item %d: persist %s: %s", page, index, posting.PostingID, errText(err))
		return servir.OutcomeFailed, posting.PostingID, err
	}

	if validation.Complete {
		stats.recordSavedComplete()
		return servir.OutcomeSavedComplete, posting.PostingID, nil
	}
	stats.recordSavedIncomplete()
	return servir.OutcomeSavedIncomplete, posting.PostingID, nil
}

func errText(err error) string {
	if msg := servir.ErrorMessage(err); msg != "Internal error." {
		return msg
	}
	return err.Error()
}
