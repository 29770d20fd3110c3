package readcache

import (
	"container/list"
	"fmt"
)

// countEntry is a single resident entry in a CountCache. The key is kept
// on the entry so eviction can remove the map slot from the list element.
type countEntry[V any] struct {
	key   string
	value V
}

// CountCache is an LRU cache bounded by item count. Used for the rendered
// and raw chapter tiers, where entries are roughly uniform in cost and a
// simple ceiling is the right knob.
//
// Recency is a doubly-linked list (front = most recently used) with map
// lookups into list elements, so Get, Set, and single-entry eviction are
// all O(1).
type CountCache[V any] struct {
	maxItems int
	entries  map[string]*list.Element
	order    *list.List

	hits      uint64
	misses    uint64
	evictions uint64
}

// CountStats is a point-in-time snapshot of a CountCache.
type CountStats struct {
	Size      int     `json:"size"`
	MaxItems  int     `json:"max_items"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// NewCountCache creates a cache holding at most maxItems entries.
func NewCountCache[V any](maxItems int) (*CountCache[V], error) {
	if maxItems < 1 {
		return nil, fmt.Errorf("%w: max items must be >= 1, got %d", ErrInvalidConfiguration, maxItems)
	}
	return &CountCache[V]{
		maxItems: maxItems,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}, nil
}

// Get returns the cached value for key and marks it most recently used.
// A miss has no effect beyond the miss counter.
func (c *CountCache[V]) Get(key string) (V, bool) {
	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return elem.Value.(*countEntry[V]).value, true
}

// Set inserts or overwrites key and marks it most recently used, then
// evicts least-recently-used entries until the cache is within bounds.
// The entry just written is never the eviction victim.
func (c *CountCache[V]) Set(key string, value V) {
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*countEntry[V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&countEntry[V]{key: key, value: value})

	for len(c.entries) > c.maxItems {
		c.evictOldest()
	}
}

// Clear removes all entries and zeroes the counters. The configured
// ceiling is unchanged.
func (c *CountCache[V]) Clear() {
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// Len returns the number of resident entries.
func (c *CountCache[V]) Len() int {
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters. O(1).
func (c *CountCache[V]) Stats() CountStats {
	return CountStats{
		Size:      len(c.entries),
		MaxItems:  c.maxItems,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate(c.hits, c.misses),
	}
}

// evictOldest removes the least-recently-used entry.
func (c *CountCache[V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	entry := c.order.Remove(elem).(*countEntry[V])
	delete(c.entries, entry.key)
	c.evictions++
}
