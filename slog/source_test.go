package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/mock"
	servirslog "github.com/franco-sebastiani/servir/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSource_ExtractItem(t *testing.T) {
	t.Parallel()

	t.Run("logs the item and its identifier", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ListingSource{
			ExtractItemFn: func(ctx context.Context, index int) (*servir.RawPosting, error) {
				return &servir.RawPosting{PostingID: "738213"}, nil
			},
		}

		source := servirslog.NewLoggingSource(inner, logger)
		posting, err := source.ExtractItem(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "738213", posting.PostingID)
		output := buf.String()
		assert.Contains(t, output, "extract item")
		assert.Contains(t, output, "index=3")
		assert.Contains(t, output, "posting_id=738213")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs the error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ListingSource{
			ExtractItemFn: func(ctx context.Context, index int) (*servir.RawPosting, error) {
				return nil, servir.Errorf(servir.EUNAVAILABLE, "detail view did not render")
			},
		}

		source := servirslog.NewLoggingSource(inner, logger)
		_, err := source.ExtractItem(context.Background(), 0)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "detail view did not render")
	})
}

func TestLoggingSource_NextPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ListingSource{
		NextPageFn: func(ctx context.Context) (bool, error) { return true, nil },
	}

	source := servirslog.NewLoggingSource(inner, logger)
	advanced, err := source.NextPage(context.Background())

	require.NoError(t, err)
	assert.True(t, advanced)
	output := buf.String()
	assert.Contains(t, output, "next page")
	assert.Contains(t, output, "advanced=true")
}

func TestLoggingSource_Close(t *testing.T) {
	t.Parallel()

	closed := false
	inner := &mock.ListingSource{
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	source := servirslog.NewLoggingSource(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, source.Close())
	assert.True(t, closed)
}
