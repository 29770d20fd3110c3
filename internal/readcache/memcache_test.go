package readcache

import (
	"errors"
	"testing"
)

// blob is a test payload with a fixed size hint.
type blob struct {
	name string
	size int64
}

func (b blob) SizeBytes() int64 { return b.size }

func TestNewMemoryCacheValidation(t *testing.T) {
	for _, max := range []int64{0, -1} {
		if _, err := NewMemoryCache[blob](max); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("NewMemoryCache(%d): want ErrInvalidConfiguration, got %v", max, err)
		}
	}
	if _, err := NewMemoryCache[blob](1); err != nil {
		t.Errorf("NewMemoryCache(1): unexpected error %v", err)
	}
}

func TestMemoryCacheEvictsToFit(t *testing.T) {
	c, err := NewMemoryCache[blob](1000)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}

	c.Set("img1", blob{"img1", 600})
	c.Set("img2", blob{"img2", 600})

	if _, ok := c.Get("img1"); ok {
		t.Error("img1 should have been evicted to admit img2")
	}
	if _, ok := c.Get("img2"); !ok {
		t.Error("img2 should be present")
	}
	if got := c.MemoryBytes(); got != 600 {
		t.Errorf("MemoryBytes = %d, want 600", got)
	}
}

func TestMemoryCacheBudgetInvariant(t *testing.T) {
	const budget = 500
	c, _ := NewMemoryCache[blob](budget)

	sizes := []int64{100, 250, 50, 300, 120, 499, 1, 200}
	for i, size := range sizes {
		c.Set(string(rune('a'+i)), blob{size: size})
		if got := c.MemoryBytes(); got > budget {
			t.Fatalf("after set %d: MemoryBytes = %d exceeds budget %d", i, got, budget)
		}
	}
}

func TestMemoryCacheOversizedItem(t *testing.T) {
	c, _ := NewMemoryCache[blob](100)

	c.Set("small", blob{size: 80})
	c.Set("huge", blob{size: 5000})

	// The oversized value empties the cache and is admitted alone.
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want exactly 1 (the oversized entry)", c.Len())
	}
	if _, ok := c.Get("small"); ok {
		t.Error("small should have been evicted for the oversized entry")
	}
	if v, ok := c.Get("huge"); !ok || v.size != 5000 {
		t.Errorf("huge: got (%+v, %v), want present with size 5000", v, ok)
	}
	if got := c.MemoryBytes(); got != 5000 {
		t.Errorf("MemoryBytes = %d, want 5000", got)
	}
}

func TestMemoryCacheUpdateReplacesSize(t *testing.T) {
	c, _ := NewMemoryCache[blob](1000)

	c.Set("a", blob{size: 400})
	c.Set("a", blob{size: 100})
	if got := c.MemoryBytes(); got != 100 {
		t.Errorf("MemoryBytes after shrink = %d, want 100", got)
	}

	c.Set("b", blob{size: 800})
	// a (100) + b (800) fit without evicting a.
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still fit alongside b")
	}

	// Growing a beyond the remaining room evicts b, not a's old self.
	c.Set("a", blob{size: 950})
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted to grow a")
	}
	if got := c.MemoryBytes(); got != 950 {
		t.Errorf("MemoryBytes = %d, want 950", got)
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1 (update of a is not an eviction)", c.Stats().Evictions)
	}
}

func TestMemoryCacheGetRefreshesRecency(t *testing.T) {
	c, _ := NewMemoryCache[blob](300)

	c.Set("a", blob{size: 100})
	c.Set("b", blob{size: 100})
	c.Set("c", blob{size: 100})
	c.Get("a")
	c.Set("d", blob{size: 100}) // must evict b, not the freshly touched a

	if _, ok := c.Get("a"); !ok {
		t.Error("a was touched and should have survived")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b was least recently used and should be gone")
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c, _ := NewMemoryCache[blob](1000)

	stats := c.Stats()
	if stats.HitRate != 0.0 {
		t.Errorf("HitRate on fresh cache = %v, want 0.0", stats.HitRate)
	}
	if stats.TimeSinceLastEvict != 0 {
		t.Errorf("TimeSinceLastEvict before any eviction = %v, want 0", stats.TimeSinceLastEvict)
	}

	c.Set("a", blob{size: 200})
	c.Set("b", blob{size: 300})
	c.Get("a")
	c.Get("nope")

	stats = c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 50.0 {
		t.Errorf("HitRate = %v, want 50.0", stats.HitRate)
	}
	if stats.MemoryUtilizationPct != 50.0 {
		t.Errorf("MemoryUtilizationPct = %v, want 50.0", stats.MemoryUtilizationPct)
	}
	if stats.AvgItemSizeBytes != 250.0 {
		t.Errorf("AvgItemSizeBytes = %v, want 250.0", stats.AvgItemSizeBytes)
	}

	c.Set("c", blob{size: 600}) // evicts b
	stats = c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
	if stats.TimeSinceLastEvict < 0 {
		t.Errorf("TimeSinceLastEvict = %v, want >= 0", stats.TimeSinceLastEvict)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c, _ := NewMemoryCache[blob](1000)

	c.Clear() // no-op on empty

	c.Set("a", blob{size: 500})
	c.Set("b", blob{size: 600}) // evicts a
	c.Get("b")
	c.Clear()

	stats := c.Stats()
	if stats.Size != 0 || stats.MemoryBytes != 0 || stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Errorf("stats after clear = %+v, want all zero", stats)
	}
	if stats.MaxBytes != 1000 {
		t.Errorf("MaxBytes after clear = %d, want 1000", stats.MaxBytes)
	}
}
