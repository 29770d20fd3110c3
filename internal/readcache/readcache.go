package readcache

import "errors"

// ErrInvalidConfiguration is returned by constructors when a ceiling,
// budget, or threshold is non-positive. It is never returned after
// construction: get/set/clear/stats have no failure mode.
var ErrInvalidConfiguration = errors.New("readcache: invalid configuration")

// SizeHinter reports the in-memory footprint of a cached value.
// Values stored in a MemoryCache must implement it; the size is measured
// once at insertion and tracked alongside the entry, never recomputed.
type SizeHinter interface {
	SizeBytes() int64
}

// hitRate converts hit/miss counters to a percentage, 0.0 when the cache
// has never been read.
func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}
