// Package slog provides logging decorators for the servir interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/franco-sebastiani/servir"
)

// Ensure LoggingSource implements servir.ListingSource.
var _ servir.ListingSource = (*LoggingSource)(nil)

// LoggingSource wraps a ListingSource with debug logging. Browser
// interactions are where collection runs go wrong, so every call is logged
// with its duration and error.
type LoggingSource struct {
	next   servir.ListingSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next servir.ListingSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// TotalPages logs the page count reading and delegates.
func (s *LoggingSource) TotalPages(ctx context.Context) (total int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("total pages",
			"total", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.TotalPages(ctx)
}

// ItemCount logs the item count reading and delegates.
func (s *LoggingSource) ItemCount(ctx context.Context) (count int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("item count",
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ItemCount(ctx)
}

// ExtractItem logs the extraction round trip and delegates.
func (s *LoggingSource) ExtractItem(ctx context.Context, index int) (posting *servir.RawPosting, err error) {
	defer func(begin time.Time) {
		postingID := ""
		if posting != nil {
			postingID = posting.PostingID
		}
		s.logger.Info("extract item",
			"index", index,
			"posting_id", postingID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ExtractItem(ctx, index)
}

// NextPage logs the navigation and delegates.
func (s *LoggingSource) NextPage(ctx context.Context) (advanced bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("next page",
			"advanced", advanced,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.NextPage(ctx)
}

// Close delegates to the wrapped source.
func (s *LoggingSource) Close() error {
	return s.next.Close()
}
