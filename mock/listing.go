// Package mock provides hand-written mock implementations of the servir
// interfaces for use in tests.
package mock

import (
	"context"
	"time"

	"github.com/franco-sebastiani/servir"
)

var _ servir.ListingSource = (*ListingSource)(nil)

// ListingSource is a mock implementation of servir.ListingSource.
type ListingSource struct {
	TotalPagesFn  func(ctx context.Context) (int, error)
	ItemCountFn   func(ctx context.Context) (int, error)
	ExtractItemFn func(ctx context.Context, index int) (*servir.RawPosting, error)
	NextPageFn    func(ctx context.Context) (bool, error)
	CloseFn       func() error
}

func (s *ListingSource) TotalPages(ctx context.Context) (int, error) {
	return s.TotalPagesFn(ctx)
}

func (s *ListingSource) ItemCount(ctx context.Context) (int, error) {
	return s.ItemCountFn(ctx)
}

func (s *ListingSource) ExtractItem(ctx context.Context, index int) (*servir.RawPosting, error) {
	return s.ExtractItemFn(ctx, index)
}

func (s *ListingSource) NextPage(ctx context.Context) (bool, error) {
	return s.NextPageFn(ctx)
}

func (s *ListingSource) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ servir.DetailParser = (*DetailParser)(nil)

// DetailParser is a mock implementation of servir.DetailParser.
type DetailParser struct {
	ParseFn func(html string, scrapedAt time.Time) (*servir.RawPosting, error)
}

func (p *DetailParser) Parse(html string, scrapedAt time.Time) (*servir.RawPosting, error) {
	return p.ParseFn(html, scrapedAt)
}
