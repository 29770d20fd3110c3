package readcache

import (
	"container/list"
	"fmt"
	"time"
)

// memEntry carries the byte size measured at insertion time, so updates
// and evictions adjust the running total without re-asking the value.
type memEntry[V SizeHinter] struct {
	key   string
	value V
	size  int64
}

// MemoryCache is an LRU cache bounded by a byte budget rather than an
// item count. Used for encoded images, whose sizes span a few KB to
// several MB: a byte budget lets many small entries or a few large ones
// coexist, where a count ceiling would be either wasteful or unsafe.
//
// One deliberate exception to the budget: a single value larger than the
// whole budget is still admitted, alone, into an emptied cache. Rejecting
// it would stall the reader on that image forever; holding one oversized
// entry is the lesser evil and shows up honestly in Stats.
type MemoryCache[V SizeHinter] struct {
	maxBytes   int64
	totalBytes int64
	entries    map[string]*list.Element
	order      *list.List

	hits         uint64
	misses       uint64
	evictions    uint64
	lastEviction time.Time
}

// MemoryStats is a point-in-time snapshot of a MemoryCache.
type MemoryStats struct {
	Size                 int           `json:"size"`
	MemoryBytes          int64         `json:"memory_bytes"`
	MaxBytes             int64         `json:"max_bytes"`
	Hits                 uint64        `json:"hits"`
	Misses               uint64        `json:"misses"`
	Evictions            uint64        `json:"evictions"`
	HitRate              float64       `json:"hit_rate"`
	MemoryUtilizationPct float64       `json:"memory_utilization_pct"`
	AvgItemSizeBytes     float64       `json:"avg_item_size_bytes"`
	TimeSinceLastEvict   time.Duration `json:"time_since_last_eviction"`
}

// NewMemoryCache creates a cache whose resident entries total at most
// maxBytes, oversized exception aside.
func NewMemoryCache[V SizeHinter](maxBytes int64) (*MemoryCache[V], error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("%w: max bytes must be > 0, got %d", ErrInvalidConfiguration, maxBytes)
	}
	return &MemoryCache[V]{
		maxBytes: maxBytes,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}, nil
}

// Get returns the cached value for key and marks it most recently used.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*memEntry[V]).value, true
}

// Set inserts or overwrites key. The value's size is measured once here.
// An existing entry is detached first (its size leaves the running total
// without counting as an eviction), then least-recently-used entries are
// evicted until the new value fits the budget or the cache is empty.
func (c *MemoryCache[V]) Set(key string, value V) {
	size := value.SizeBytes()

	if elem, ok := c.entries[key]; ok {
		old := c.order.Remove(elem).(*memEntry[V])
		delete(c.entries, key)
		c.totalBytes -= old.size
	}

	for c.totalBytes+size > c.maxBytes && len(c.entries) > 0 {
		c.evictOldest()
	}

	c.entries[key] = c.order.PushFront(&memEntry[V]{key: key, value: value, size: size})
	c.totalBytes += size
}

// Clear removes all entries and zeroes the counters and running total.
func (c *MemoryCache[V]) Clear() {
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.totalBytes = 0
	c.hits, c.misses, c.evictions = 0, 0, 0
	c.lastEviction = time.Time{}
}

// Len returns the number of resident entries.
func (c *MemoryCache[V]) Len() int {
	return len(c.entries)
}

// MemoryBytes returns the tracked byte total of resident entries.
func (c *MemoryCache[V]) MemoryBytes() int64 {
	return c.totalBytes
}

// Stats returns a snapshot of the cache counters. O(1).
func (c *MemoryCache[V]) Stats() MemoryStats {
	s := MemoryStats{
		Size:                 len(c.entries),
		MemoryBytes:          c.totalBytes,
		MaxBytes:             c.maxBytes,
		Hits:                 c.hits,
		Misses:               c.misses,
		Evictions:            c.evictions,
		HitRate:              hitRate(c.hits, c.misses),
		MemoryUtilizationPct: float64(c.totalBytes) / float64(c.maxBytes) * 100.0,
	}
	if len(c.entries) > 0 {
		s.AvgItemSizeBytes = float64(c.totalBytes) / float64(len(c.entries))
	}
	if !c.lastEviction.IsZero() {
		s.TimeSinceLastEvict = time.Since(c.lastEviction)
	}
	return s
}

// evictOldest removes the least-recently-used entry and returns its
// bytes to the budget.
func (c *MemoryCache[V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	entry := c.order.Remove(elem).(*memEntry[V])
	delete(c.entries, entry.key)
	c.totalBytes -= entry.size
	c.evictions++
	c.lastEviction = time.Now()
}
