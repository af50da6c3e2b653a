package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/corey/moodlens/internal/ports"
)

// memKV is an in-memory ports.KVStore with injectable failures.
type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setErr  error
	setHits int
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHits++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memKV) sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setHits
}

// fixedClock returns a controllable clock.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func face(expr map[string]float64) []ports.Face {
	return []ports.Face{{Expressions: expr}}
}

// fakeCamera serves a fixed list of frames, then EOF (or ErrNoFrame when
// follow is set).
type fakeCamera struct {
	mu      sync.Mutex
	frames  int
	served  int
	follow  bool
	openErr error
	opened  int
	closed  int
}

func (c *fakeCamera) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened++
	return c.openErr
}

func (c *fakeCamera) Frame() (ports.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.served >= c.frames {
		if c.follow {
			return ports.Frame{}, ports.ErrNoFrame
		}
		return ports.Frame{}, io.EOF
	}
	c.served++
	return ports.Frame{Seq: uint64(c.served), Captured: time.Now()}, nil
}

func (c *fakeCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeCamera) counts() (opened, closed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened, c.closed
}

// fakeDetector answers frame N with results[N-1].
type fakeDetector struct {
	loadErr error
	results []detectResult
	block   chan struct{} // if set, the first Detect waits on it (or ctx)
	once    sync.Once
}

type detectResult struct {
	faces []ports.Face
	err   error
}

func (d *fakeDetector) Load(ctx context.Context) error { return d.loadErr }

func (d *fakeDetector) Detect(ctx context.Context, f ports.Frame) ([]ports.Face, error) {
	var wait bool
	d.once.Do(func() { wait = d.block != nil })
	if wait {
		select {
		case <-d.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	i := int(f.Seq) - 1
	if i < 0 || i >= len(d.results) {
		return nil, errors.New("unexpected frame")
	}
	r := d.results[i]
	return r.faces, r.err
}
