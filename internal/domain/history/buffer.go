// Package history keeps the bounded log of recent mood observations that
// feeds trend bucketing.
package history

import (
	"sort"

	"github.com/corey/moodlens/internal/domain/mood"
)

// DefaultCapacity is the number of observations retained.
const DefaultCapacity = 10

// Buffer is an append-only FIFO of observations with a fixed capacity.
// When an append overflows the capacity the oldest observation is dropped.
// Not thread-safe; the owning tracker serializes access.
type Buffer struct {
	capacity int
	items    []mood.Observation
}

// New creates an empty buffer. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// FromObservations rebuilds a buffer from persisted observations. Records are
// stable-sorted by timestamp and only the most recent capacity are kept.
func FromObservations(capacity int, obs []mood.Observation) *Buffer {
	b := New(capacity)
	items := append([]mood.Observation(nil), obs...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
	if len(items) > b.capacity {
		items = items[len(items)-b.capacity:]
	}
	b.items = items
	return b
}

// Append adds obs at the tail and evicts from the head until the buffer is
// back within capacity.
func (b *Buffer) Append(obs mood.Observation) {
	b.items = append(b.items, obs)
	if over := len(b.items) - b.capacity; over > 0 {
		// Copy down so the backing array does not grow without bound.
		n := copy(b.items, b.items[over:])
		b.items = b.items[:n]
	}
}

// All returns a copy of the observations, oldest first.
func (b *Buffer) All() []mood.Observation {
	out := make([]mood.Observation, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of observations held.
func (b *Buffer) Len() int { return len(b.items) }

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return b.capacity }

// Last returns the most recent observation.
func (b *Buffer) Last() (mood.Observation, bool) {
	if len(b.items) == 0 {
		return mood.Observation{}, false
	}
	return b.items[len(b.items)-1], true
}

// Reset clears all observations.
func (b *Buffer) Reset() {
	b.items = nil
}
