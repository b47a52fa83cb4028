package main

import (
	"fmt"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/collect"
	"golang.org/x/time/rate"
)

// CollectCmd walks the portal's paginated listing and stores every new
// posting it finds.
type CollectCmd struct {
	URL       string  `help:"Listing page URL." default:"${listing_url}"`
	Threshold int     `short:"t" help:"Consecutive duplicates before stopping early." default:"10"`
	Pages     int     `short:"p" help:"Maximum pages to walk (0 walks them all)." default:"0"`
	Rate      float64 `help:"Maximum item extractions per second." default:"1"`
	MaxErrors int     `help:"Maximum errors kept in the run log." default:"100"`
	Verbose   bool    `short:"v" help:"Log every listing interaction."`
}

func (c *CollectCmd) Run(deps *Dependencies) error {
	collector := &collect.Collector{
		Source:             deps.Source,
		Store:              deps.Postings,
		Limiter:            rate.NewLimiter(rate.Limit(c.Rate), 1),
		DuplicateThreshold: c.Threshold,
		MaxPages:           c.Pages,
		MaxErrors:          c.MaxErrors,
		Progress: func(event collect.ItemEvent) {
			switch event.Outcome {
			case servir.OutcomeFailed:
				fmt.Fprintf(deps.Stderr, "page %d item %d: %v\n", event.Page, event.Index, event.Err)
			case servir.OutcomeSavedIncomplete:
				fmt.Fprintf(deps.Stdout, "page %d item %d: saved %s (incomplete)\n", event.Page, event.Index, event.PostingID)
			case servir.OutcomeSavedComplete:
				fmt.Fprintf(deps.Stdout, "page %d item %d: saved %s\n", event.Page, event.Index, event.PostingID)
			}
		},
	}

	stats, err := collector.Run(deps.Ctx)
	if stats != nil {
		stats.WriteSummary(deps.Stdout)
	}
	return err
}
