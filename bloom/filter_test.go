package bloom_test

import (
	"fmt"
	"testing"

	"github.com/franco-sebastiani/servir/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndMayContain(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.MayContain("738213"))

	f.Add("738213")

	assert.True(t, f.MayContain("738213"))
	assert.False(t, f.MayContain("738214"))
}

func TestFilter_NoFalseNegatives(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)

	for i := range 10000 {
		f.Add(fmt.Sprintf("%d", 700000+i))
	}

	// Every added identifier must test positive.
	for i := range 10000 {
		assert.True(t, f.MayContain(fmt.Sprintf("%d", 700000+i)))
	}
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("738213")
	f.Add("738214")
	f.Add("738215")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}
