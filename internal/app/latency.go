package app

import (
	"sort"
	"time"
)

// LatencyTracker collects detection durations and computes the P50 over a
// rolling window. Not thread-safe; the loop serializes access.
type LatencyTracker struct {
	window  time.Duration
	samples []latencySample
}

type latencySample struct {
	ts time.Time
	d  time.Duration
}

// minLatencySamples is the sample count below which P50 reports 0.
const minLatencySamples = 5

// NewLatencyTracker creates a tracker with the given rolling window duration.
func NewLatencyTracker(window time.Duration) *LatencyTracker {
	return &LatencyTracker{window: window}
}

// RecordAt adds a sample finished at ts. Negative durations are dropped.
func (l *LatencyTracker) RecordAt(ts time.Time, d time.Duration) {
	if d < 0 {
		return
	}
	l.samples = append(l.samples, latencySample{ts: ts, d: d})
	l.evict(ts)
}

// P50 returns the median duration of samples within the window ending at
// now. Returns 0 with fewer than 5 samples.
func (l *LatencyTracker) P50(now time.Time) time.Duration {
	l.evict(now)
	if len(l.samples) < minLatencySamples {
		return 0
	}
	ds := make([]time.Duration, len(l.samples))
	for i, s := range l.samples {
		ds[i] = s.d
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	return ds[len(ds)/2]
}

// evict removes samples older than the window.
func (l *LatencyTracker) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.samples) && l.samples[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		l.samples = l.samples[i:]
	}
}
