package mock

import (
	"context"

	"github.com/franco-sebastiani/servir"
)

var _ servir.PostingStore = (*PostingStore)(nil)

// PostingStore is a mock implementation of servir.PostingStore.
type PostingStore struct {
	ExistsFn           func(ctx context.Context, postingID string) (bool, error)
	InsertCompleteFn   func(ctx context.Context, p *servir.RawPosting) error
	InsertIncompleteFn func(ctx context.Context, p *servir.RawPosting, missing []servir.FieldName) error
}

func (s *PostingStore) Exists(ctx context.Context, postingID string) (bool, error) {
	return s.ExistsFn(ctx, postingID)
}

func (s *PostingStore) InsertComplete(ctx context.Context, p *servir.RawPosting) error {
	return s.InsertCompleteFn(ctx, p)
}

func (s *PostingStore) InsertIncomplete(ctx context.Context, p *servir.RawPosting, missing []servir.FieldName) error {
	return s.InsertIncompleteFn(ctx, p, missing)
}

var _ servir.RawReader = (*RawReader)(nil)

// RawReader is a mock implementation of servir.RawReader.
type RawReader struct {
	PendingPostingsFn func(ctx context.Context) ([]*servir.RawPosting, error)
}

func (r *RawReader) PendingPostings(ctx context.Context) ([]*servir.RawPosting, error) {
	return r.PendingPostingsFn(ctx)
}

var _ servir.NormalizedStore = (*NormalizedStore)(nil)

// NormalizedStore is a mock implementation of servir.NormalizedStore.
type NormalizedStore struct {
	InsertCompleteFn   func(ctx context.Context, p *servir.NormalizedPosting) error
	InsertIncompleteFn func(ctx context.Context, p *servir.NormalizedPosting, failed []servir.FieldName) error
}

func (s *NormalizedStore) InsertComplete(ctx context.Context, p *servir.NormalizedPosting) error {
	return s.InsertCompleteFn(ctx, p)
}

func (s *NormalizedStore) InsertIncomplete(ctx context.Context, p *servir.NormalizedPosting, failed []servir.FieldName) error {
	return s.InsertIncompleteFn(ctx, p, failed)
}
