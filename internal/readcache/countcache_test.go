package readcache

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewCountCacheValidation(t *testing.T) {
	for _, max := range []int{0, -1, -100} {
		if _, err := NewCountCache[int](max); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("NewCountCache(%d): want ErrInvalidConfiguration, got %v", max, err)
		}
	}
	if _, err := NewCountCache[int](1); err != nil {
		t.Errorf("NewCountCache(1): unexpected error %v", err)
	}
}

func TestCountCacheEvictsLRU(t *testing.T) {
	c, err := NewCountCache[int](2)
	if err != nil {
		t.Fatalf("NewCountCache: %v", err)
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have been evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Errorf("b: got (%d, %v), want (2, true)", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("c: got (%d, %v), want (3, true)", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCountCacheGetRefreshesRecency(t *testing.T) {
	c, _ := NewCountCache[int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a, then insert enough new keys to force evictions. The
	// touched key must outlive the untouched ones.
	c.Get("a")
	c.Set("d", 4)
	c.Set("e", 5)

	if _, ok := c.Get("a"); !ok {
		t.Error("a was touched and should have survived eviction")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b was least recently used and should be gone")
	}
	if _, ok := c.Get("c"); ok {
		t.Error("c should have been evicted after b")
	}
}

func TestCountCacheOverwriteRefreshesRecency(t *testing.T) {
	c, _ := NewCountCache[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // update, not insert: no eviction, a becomes MRU
	c.Set("c", 3)  // evicts b

	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("a: got (%d, %v), want (10, true)", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
}

func TestCountCacheRetainsMostRecentlyTouched(t *testing.T) {
	const max = 4
	c, _ := NewCountCache[string](max)

	for i := range 10 {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}

	stats := c.Stats()
	if stats.Size != max {
		t.Fatalf("Size = %d, want %d", stats.Size, max)
	}
	if stats.Evictions != 10-max {
		t.Errorf("Evictions = %d, want %d", stats.Evictions, 10-max)
	}
	// Exactly the last max keys survive.
	for i := range 10 {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		if want := i >= 10-max; ok != want {
			t.Errorf("k%d present = %v, want %v", i, ok, want)
		}
	}
}

func TestCountCacheStats(t *testing.T) {
	c, _ := NewCountCache[int](2)

	stats := c.Stats()
	if stats.HitRate != 0.0 {
		t.Errorf("HitRate on fresh cache = %v, want 0.0", stats.HitRate)
	}

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats = c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.Hits+stats.Misses != 3 {
		t.Errorf("hits+misses = %d, want 3 (one per Get)", stats.Hits+stats.Misses)
	}
	if want := 2.0 / 3.0 * 100.0; stats.HitRate != want {
		t.Errorf("HitRate = %v, want %v", stats.HitRate, want)
	}
}

func TestCountCacheClear(t *testing.T) {
	c, _ := NewCountCache[int](2)

	// Clearing an empty cache is a no-op.
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after clear on empty = %d, want 0", c.Len())
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")
	c.Clear()

	stats := c.Stats()
	if stats.Size != 0 || stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Errorf("stats after clear = %+v, want all zero", stats)
	}
	if stats.MaxItems != 2 {
		t.Errorf("MaxItems after clear = %d, want 2", stats.MaxItems)
	}

	// Cache remains usable.
	c.Set("d", 4)
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Errorf("d after clear: got (%d, %v), want (4, true)", v, ok)
	}
}
