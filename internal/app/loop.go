package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/corey/moodlens/internal/ports"
)

// DefaultTickPeriod is the detection loop period.
const DefaultTickPeriod = 100 * time.Millisecond

// LoopStats counts what happened on each tick.
type LoopStats struct {
	Ticks      uint64        // ticker fired
	Skipped    uint64        // a detection was still in flight
	NoFrame    uint64        // camera had nothing ready
	Detections uint64        // detector returned
	Cycles     uint64        // update cycles applied
	NoFace     uint64        // detection held no usable face
	Errors     uint64        // transient detection or save failures
	LatencyP50 time.Duration // median detection time, 0 until enough samples
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	Period time.Duration
	Logger *slog.Logger
}

// Loop drives periodic detection. At most one detection is in flight; ticks
// that arrive meanwhile are skipped. Results are applied on the Run goroutine.
type Loop struct {
	cam     ports.Camera
	det     ports.Detector
	tracker *Tracker
	period  time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	stats   LoopStats
	latency *LatencyTracker
}

type detection struct {
	faces   []ports.Face
	err     error
	elapsed time.Duration
	done    time.Time
}

// NewLoop creates a loop over the given capture pair.
func NewLoop(cam ports.Camera, det ports.Detector, tracker *Tracker, cfg LoopConfig) *Loop {
	if cfg.Period <= 0 {
		cfg.Period = DefaultTickPeriod
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{
		cam:     cam,
		det:     det,
		tracker: tracker,
		period:  cfg.Period,
		log:     cfg.Logger.With("component", "loop"),
		latency: NewLatencyTracker(time.Minute),
	}
}

// Run loads the detector, opens the camera and ticks until ctx is done or
// the camera stream ends (both return nil). Capability failures return an
// error wrapping ports.ErrCapabilityUnavailable. The camera is closed and
// any in-flight detection is awaited on every return path.
func (l *Loop) Run(ctx context.Context) error {
	defer l.cam.Close()

	if err := l.det.Load(ctx); err != nil {
		return fmt.Errorf("load detector: %w", err)
	}
	if err := l.cam.Open(ctx); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	l.log.Info("detection loop started", "period", l.period)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so a detection finishing after Run returns never blocks.
	results := make(chan detection, 1)
	inFlight := false

	for {
		select {
		case <-ctx.Done():
			l.log.Info("detection loop stopped", "reason", ctx.Err())
			return nil

		case res := <-results:
			inFlight = false
			if err := l.apply(res); err != nil {
				return err
			}

		case <-ticker.C:
			l.bump(func(s *LoopStats) { s.Ticks++ })
			if inFlight {
				l.bump(func(s *LoopStats) { s.Skipped++ })
				continue
			}

			frame, err := l.cam.Frame()
			switch {
			case err == nil:
			case errors.Is(err, ports.ErrNoFrame):
				l.bump(func(s *LoopStats) { s.NoFrame++ })
				continue
			case errors.Is(err, io.EOF):
				l.log.Info("camera stream ended")
				return nil
			case errors.Is(err, ports.ErrCapabilityUnavailable):
				return fmt.Errorf("read frame: %w", err)
			default:
				l.bump(func(s *LoopStats) { s.Errors++ })
				l.log.Warn("read frame", "error", err)
				continue
			}

			inFlight = true
			wg.Add(1)
			go func() {
				defer wg.Done()
				start := time.Now()
				faces, err := l.det.Detect(ctx, frame)
				done := time.Now()
				results <- detection{faces: faces, err: err, elapsed: done.Sub(start), done: done}
			}()
		}
	}
}

// Stats returns a copy of the loop counters.
func (l *Loop) Stats() LoopStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stats
	s.LatencyP50 = l.latency.P50(time.Now())
	return s
}

// apply runs the update cycle for a finished detection. Only capability
// failures are returned.
func (l *Loop) apply(res detection) error {
	l.mu.Lock()
	l.stats.Detections++
	l.latency.RecordAt(res.done, res.elapsed)
	l.mu.Unlock()

	if res.err != nil {
		if errors.Is(res.err, ports.ErrCapabilityUnavailable) {
			return fmt.Errorf("detect: %w", res.err)
		}
		if errors.Is(res.err, context.Canceled) {
			return nil
		}
		l.bump(func(s *LoopStats) { s.Errors++ })
		l.log.Warn("detection failed, skipping frame", "error", res.err)
		return nil
	}

	state, ok, err := l.tracker.Observe(res.faces)
	if !ok {
		l.bump(func(s *LoopStats) { s.NoFace++ })
		return nil
	}
	l.bump(func(s *LoopStats) { s.Cycles++ })
	if err != nil {
		l.bump(func(s *LoopStats) { s.Errors++ })
		return nil
	}
	l.log.Debug("mood updated",
		"mood", state.Reading.Mood,
		"confidence", state.Reading.Confidence,
	)
	return nil
}

func (l *Loop) bump(f func(*LoopStats)) {
	l.mu.Lock()
	f(&l.stats)
	l.mu.Unlock()
}
