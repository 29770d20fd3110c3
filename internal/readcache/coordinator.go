package readcache

import (
	"log/slog"

	"github.com/wilbur182/folio/internal/memwatch"
)

const (
	// DefaultRenderedMaxItems bounds the rendered-chapter tier.
	DefaultRenderedMaxItems = 10
	// DefaultRawMaxItems bounds the raw-chapter tier. Deliberately larger
	// than the rendered ceiling: raw chapters are smaller per item and
	// cheaper to retain, and a raw hit still skips the document I/O.
	DefaultRawMaxItems = 20
	// DefaultImageMaxBytes budgets the encoded-image tier (50 MiB).
	DefaultImageMaxBytes = 50 * 1024 * 1024
	// DefaultMemoryThresholdBytes is the watchdog warning line (150 MiB).
	DefaultMemoryThresholdBytes = 150 * 1024 * 1024
)

// Coordinator owns the three cache tiers and the memory watchdog for one
// open document. It is a passive holder: the reading pipeline runs the
// cascading lookups itself against the tiers exposed here, so each tier
// keeps its natural API instead of being proxied through a fat facade.
//
// R is the rendered-chapter type, I the image payload type. The raw tier
// always holds the chapter's raw text.
//
// A Coordinator is built when a document is opened and discarded whole
// when it is closed or switched; dropping it drops every entry and
// counter at once, which is what keeps stale keys from one book out of
// the next.
type Coordinator[R any, I SizeHinter] struct {
	rendered *CountCache[R]
	raw      *CountCache[string]
	images   *MemoryCache[I]
	watchdog *memwatch.Watchdog
}

// CombinedStats aggregates all tiers plus the watchdog reading.
type CombinedStats struct {
	Rendered CountStats        `json:"rendered"`
	Raw      CountStats        `json:"raw"`
	Images   MemoryStats       `json:"images"`
	Memory   memwatch.Snapshot `json:"memory"`
}

// NewCoordinator validates every sub-configuration and builds the tiers.
// The first invalid value is reported; nothing is half-constructed.
func NewCoordinator[R any, I SizeHinter](renderedMaxItems, rawMaxItems int, imageMaxBytes, memThresholdBytes int64) (*Coordinator[R, I], error) {
	rendered, err := NewCountCache[R](renderedMaxItems)
	if err != nil {
		return nil, err
	}
	raw, err := NewCountCache[string](rawMaxItems)
	if err != nil {
		return nil, err
	}
	images, err := NewMemoryCache[I](imageMaxBytes)
	if err != nil {
		return nil, err
	}
	watchdog, err := memwatch.New(memThresholdBytes)
	if err != nil {
		return nil, err
	}
	return &Coordinator[R, I]{
		rendered: rendered,
		raw:      raw,
		images:   images,
		watchdog: watchdog,
	}, nil
}

// Rendered returns the rendered-chapter tier.
func (c *Coordinator[R, I]) Rendered() *CountCache[R] { return c.rendered }

// Raw returns the raw-chapter tier.
func (c *Coordinator[R, I]) Raw() *CountCache[string] { return c.raw }

// Images returns the encoded-image tier.
func (c *Coordinator[R, I]) Images() *MemoryCache[I] { return c.images }

// Watchdog returns the memory watchdog.
func (c *Coordinator[R, I]) Watchdog() *memwatch.Watchdog { return c.watchdog }

// CombinedStats snapshots every tier and the watchdog in one structure.
// Cost is bounded by the configured ceilings, effectively O(1).
func (c *Coordinator[R, I]) CombinedStats() CombinedStats {
	return CombinedStats{
		Rendered: c.rendered.Stats(),
		Raw:      c.raw.Stats(),
		Images:   c.images.Stats(),
		Memory:   c.watchdog.Snapshot(),
	}
}

// SampleMemory takes one watchdog sample and logs whatever it produced.
// Call it once per content load, never per render frame. A failed OS
// query is logged at debug and otherwise ignored.
func (c *Coordinator[R, I]) SampleMemory(logger *slog.Logger) {
	events, err := c.watchdog.Sample()
	if err != nil {
		if logger != nil {
			logger.Debug("memory sample skipped", "err", err)
		}
		return
	}
	if logger == nil {
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case memwatch.ThresholdExceeded:
			logger.Warn("memory over threshold",
				"usage_bytes", ev.UsageBytes,
				"threshold_bytes", ev.ThresholdBytes)
		case memwatch.Recovered:
			logger.Info("memory recovered",
				"usage_bytes", ev.UsageBytes,
				"threshold_bytes", ev.ThresholdBytes)
		case memwatch.Milestone:
			logger.Info("memory milestone",
				"pct_of_threshold", ev.MilestonePct,
				"usage_bytes", ev.UsageBytes)
		}
	}
}

// ClearAll empties every tier and quiets the watchdog. Used on document
// switch; prefer dropping the whole Coordinator when the old document is
// gone for good.
func (c *Coordinator[R, I]) ClearAll() {
	c.rendered.Clear()
	c.raw.Clear()
	c.images.Clear()
	c.watchdog.Reset()
}
