package servir

import (
	"context"
	"time"
)

// ListingSource exposes the paginated job listing as a navigable cursor.
// Implementations hide browser automation, render waits, and the listing's
// markup; the pipeline depends only on this contract so its tests can run
// against a scripted fake source.
//
// The underlying listing session is a single shared mutable cursor (the
// current page). It cannot be advanced concurrently; callers must drive it
// strictly sequentially.
type ListingSource interface {
	// TotalPages returns the total page count advertised by the listing.
	// Returns EUNAVAILABLE if the count cannot be determined or the page
	// is recognizably an error page.
	TotalPages(ctx context.Context) (int, error)

	// ItemCount returns the number of items present on the current page.
	// The count is derived from a repeated UI element, never assumed fixed.
	ItemCount(ctx context.Context) (int, error)

	// ExtractItem opens the item at the given zero-based index on the
	// current page, extracts its fields, and returns the cursor to the
	// listing. Returns ENOTFOUND if the index is not present.
	ExtractItem(ctx context.Context, index int) (*RawPosting, error)

	// NextPage advances the cursor to the next page. Returns false if the
	// next-page control is disabled (last page reached).
	NextPage(ctx context.Context) (bool, error)

	// Close releases the listing session.
	Close() error
}

// DetailParser extracts a raw posting from a detail page's rendered HTML.
// It implements the label-to-sibling-value contract of the listing's detail
// markup, keeping that fragile concern out of the navigation layer.
type DetailParser interface {
	Parse(html string, scrapedAt time.Time) (*RawPosting, error)
}
