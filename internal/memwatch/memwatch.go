// Package memwatch monitors the reader's own memory footprint.
// It samples process RSS on demand, reports one-shot threshold
// transitions (crossed above, recovered below) and one-time milestone
// events, and never fires repeatedly while usage holds steady on one
// side of the threshold.
package memwatch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrInvalidConfiguration is returned by New for a non-positive threshold.
var ErrInvalidConfiguration = errors.New("memwatch: invalid configuration")

// ErrMemorySampleUnavailable is returned by Sample when the OS memory
// query fails. Callers treat it as "no data this cycle" and move on; a
// missing stat must never take the reader down.
var ErrMemorySampleUnavailable = errors.New("memwatch: memory sample unavailable")

// milestones is the ladder of threshold fractions reported once each,
// in percent. Informational only; crossing 100 additionally drives the
// threshold state machine.
var milestones = []int{50, 75, 90, 100, 125, 150, 200}

// EventKind discriminates watchdog events.
type EventKind int

const (
	// ThresholdExceeded fires once when usage first rises above the
	// threshold, and not again until after a recovery.
	ThresholdExceeded EventKind = iota
	// Recovered fires once when usage first falls back to or below the
	// threshold after an excursion.
	Recovered
	// Milestone fires the first time usage reaches a notable fraction
	// of the threshold. Informational, never repeated for the same rung.
	Milestone
)

func (k EventKind) String() string {
	switch k {
	case ThresholdExceeded:
		return "threshold_exceeded"
	case Recovered:
		return "recovered"
	case Milestone:
		return "milestone"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is a single watchdog observation worth reporting.
type Event struct {
	Kind           EventKind
	UsageBytes     int64
	ThresholdBytes int64
	// MilestonePct is set for Milestone events only (percent of threshold).
	MilestonePct int
}

// Snapshot is the watchdog's current state for the combined stats view.
type Snapshot struct {
	UsageBytes          int64     `json:"usage_bytes"`
	ThresholdBytes      int64     `json:"threshold_bytes"`
	OverThreshold       bool      `json:"over_threshold"`
	Samples             uint64    `json:"samples"`
	HighestMilestonePct int       `json:"highest_milestone_pct"`
	LastTransition      time.Time `json:"last_transition"`
}

// Watchdog tracks process memory against a fixed warning threshold.
type Watchdog struct {
	threshold int64
	readRSS   func() (int64, error)

	samples          uint64
	lastUsage        int64
	over             bool
	highestMilestone int
	lastTransition   time.Time
}

// New creates a watchdog warning above thresholdBytes of process RSS.
func New(thresholdBytes int64) (*Watchdog, error) {
	if thresholdBytes <= 0 {
		return nil, fmt.Errorf("%w: threshold must be > 0, got %d", ErrInvalidConfiguration, thresholdBytes)
	}
	return &Watchdog{
		threshold: thresholdBytes,
		readRSS:   processRSS,
	}, nil
}

// Sample reads current process memory and returns the events this
// reading produced, oldest first (a milestone may accompany a threshold
// transition). A nil slice means steady state. On OS query failure the
// error wraps ErrMemorySampleUnavailable and no state changes.
func (w *Watchdog) Sample() ([]Event, error) {
	usage, err := w.readRSS()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMemorySampleUnavailable, err)
	}

	w.samples++
	w.lastUsage = usage

	var events []Event

	for _, pct := range milestones {
		if pct <= w.highestMilestone {
			continue
		}
		if usage*100 >= w.threshold*int64(pct) {
			w.highestMilestone = pct
			events = append(events, Event{
				Kind:           Milestone,
				UsageBytes:     usage,
				ThresholdBytes: w.threshold,
				MilestonePct:   pct,
			})
		}
	}

	switch {
	case usage > w.threshold && !w.over:
		w.over = true
		w.lastTransition = time.Now()
		events = append(events, Event{
			Kind:           ThresholdExceeded,
			UsageBytes:     usage,
			ThresholdBytes: w.threshold,
		})
	case usage <= w.threshold && w.over:
		w.over = false
		w.lastTransition = time.Now()
		events = append(events, Event{
			Kind:           Recovered,
			UsageBytes:     usage,
			ThresholdBytes: w.threshold,
		})
	}

	return events, nil
}

// Snapshot returns the current watchdog state.
func (w *Watchdog) Snapshot() Snapshot {
	return Snapshot{
		UsageBytes:          w.lastUsage,
		ThresholdBytes:      w.threshold,
		OverThreshold:       w.over,
		Samples:             w.samples,
		HighestMilestonePct: w.highestMilestone,
		LastTransition:      w.lastTransition,
	}
}

// Reset clears excursion and milestone state so a fresh document starts
// with a quiet watchdog. The monotonic sample count is kept.
func (w *Watchdog) Reset() {
	w.over = false
	w.highestMilestone = 0
	w.lastTransition = time.Time{}
}

// processRSS reads this process's resident set size.
func processRSS() (int64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return int64(info.RSS), nil
}
