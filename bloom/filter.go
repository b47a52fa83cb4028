// Package bloom provides a probabilistic presence check for posting
// identifiers, used in front of the store to skip database lookups for
// identifiers that were definitely never saved.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by posting identifier.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected posting identifiers with
// the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a posting identifier.
func (f *Filter) Add(postingID string) {
	f.f.AddString(postingID)
}

// MayContain returns true if the identifier might have been added. A false
// result is definitive: the identifier was never added. A true result must
// be confirmed against the store.
func (f *Filter) MayContain(postingID string) bool {
	return f.f.TestString(postingID)
}

// EstimatedCount returns the approximate number of identifiers added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
