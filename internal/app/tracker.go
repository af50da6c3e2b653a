package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/corey/moodlens/internal/domain/export"
	"github.com/corey/moodlens/internal/domain/history"
	"github.com/corey/moodlens/internal/domain/journal"
	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/domain/status"
	"github.com/corey/moodlens/internal/domain/trend"
	"github.com/corey/moodlens/internal/ports"
)

// FrameState is the transient projection rebuilt after every update cycle.
// Reading is nil until the first face is sampled in this process.
type FrameState struct {
	Reading    *mood.Reading
	Suggestion string
	Analysis   *stats.Analysis // nil when no statistics exist
	Stats      *stats.Counts   // snapshot, safe to keep
	Trends     trend.Table
	UpdatedAt  time.Time
}

// Snapshot is a consistent copy of every state container.
type Snapshot struct {
	History []mood.Observation
	Stats   *stats.Counts
	Journal []journal.Entry
	State   FrameState
}

// TrackerConfig configures a Tracker. Zero values take defaults.
type TrackerConfig struct {
	HistoryCap  int
	TrendWindow time.Duration
	Location    *time.Location
	StatusPath  string           // "" disables the status file
	OnUpdate    func(FrameState) // called after each update cycle, outside the lock
	Now         func() time.Time
	Logger      *slog.Logger
}

// Tracker owns the history buffer, statistics and journal, and runs the
// update cycle for each sampled reading. Every mutation is saved before the
// method returns. Safe for concurrent use.
type Tracker struct {
	store *Persistence
	cfg   TrackerConfig
	log   *slog.Logger

	mu      sync.Mutex
	history *history.Buffer
	counts  *stats.Counts
	journal *journal.Journal
	state   FrameState
}

// NewTracker loads persisted state from store and derives the initial
// projection from it.
func NewTracker(store *Persistence, cfg TrackerConfig) *Tracker {
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = history.DefaultCapacity
	}
	if cfg.TrendWindow <= 0 {
		cfg.TrendWindow = trend.DefaultWindow
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	t := &Tracker{
		store:   store,
		cfg:     cfg,
		log:     cfg.Logger.With("component", "tracker"),
		history: store.LoadHistory(cfg.HistoryCap),
		counts:  store.LoadStats(),
		journal: store.LoadJournal(),
	}
	t.recompute(cfg.Now())
	return t
}

// Observe runs one update cycle for a detection result. ok is false when the
// detection held no usable face; nothing changes in that case. A non-nil
// error reports a failed save; in-memory state is still updated.
func (t *Tracker) Observe(faces []ports.Face) (FrameState, bool, error) {
	r, ok := mood.Sample(faces)
	if !ok {
		return t.State(), false, nil
	}

	t.mu.Lock()
	now := t.cfg.Now()
	obs := mood.Observation{Mood: r.Mood, Timestamp: now}

	t.history.Append(obs)
	errH := t.store.SaveHistory(t.history)
	t.counts.Increment(r.Mood)
	errS := t.store.SaveStats(t.counts)

	t.state.Reading = &r
	t.recompute(now)
	state := t.stateLocked()
	t.mu.Unlock()

	if err := errors.Join(errH, errS); err != nil {
		t.log.Error("persist update", "error", err)
	}
	t.writeStatus(state)
	if t.cfg.OnUpdate != nil {
		t.cfg.OnUpdate(state)
	}
	return state, true, errors.Join(errH, errS)
}

// SubmitJournal appends a journal entry tagged with the current mood: the
// live reading if there is one, else the most recent recorded observation.
// Blank text is ignored (ok=false).
func (t *Tracker) SubmitJournal(text string) (journal.Entry, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.journal.Submit(text, t.currentMoodLocked(), t.cfg.Now())
	if !ok {
		return journal.Entry{}, false, nil
	}
	if err := t.store.SaveJournal(t.journal); err != nil {
		return e, true, err
	}
	return e, true, nil
}

// State returns the current projection.
func (t *Tracker) State() FrameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Snapshot returns copies of all containers and the projection.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		History: t.history.All(),
		Stats:   t.counts.Clone(),
		Journal: t.journal.Entries(),
		State:   t.stateLocked(),
	}
}

// Trends rebuckets history against the current clock.
func (t *Tracker) Trends() trend.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	return trend.Bucket(t.history.All(), t.cfg.Now(), t.cfg.TrendWindow, t.cfg.Location)
}

// Export builds the export artifact from history and statistics.
func (t *Tracker) Export() *export.Artifact {
	t.mu.Lock()
	defer t.mu.Unlock()
	return export.Build(t.history.All(), t.counts.Clone(), t.cfg.Now())
}

// reset drops all in-memory state without saving. The caller wipes storage.
func (t *Tracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = history.New(t.cfg.HistoryCap)
	t.counts = stats.New()
	t.journal = journal.New()
	t.state = FrameState{}
	t.recompute(t.cfg.Now())
}

// recompute rebuilds everything derived from history and statistics.
// Caller holds mu.
func (t *Tracker) recompute(now time.Time) {
	t.state.Trends = trend.Bucket(t.history.All(), now, t.cfg.TrendWindow, t.cfg.Location)
	t.state.Analysis = nil
	if a, ok := t.counts.DominantAndSecondary(); ok {
		t.state.Analysis = &a
	}
	t.state.Suggestion = ""
	if t.state.Reading != nil {
		t.state.Suggestion = mood.Suggest(string(t.state.Reading.Mood))
	}
	t.state.UpdatedAt = now
}

func (t *Tracker) stateLocked() FrameState {
	s := t.state
	if s.Reading != nil {
		r := *s.Reading
		s.Reading = &r
	}
	if s.Analysis != nil {
		a := *s.Analysis
		s.Analysis = &a
	}
	s.Stats = t.counts.Clone()
	return s
}

func (t *Tracker) currentMoodLocked() *mood.Label {
	if t.state.Reading != nil {
		m := t.state.Reading.Mood
		return &m
	}
	if last, ok := t.history.Last(); ok {
		m := last.Mood
		return &m
	}
	return nil
}

func (t *Tracker) writeStatus(s FrameState) {
	if t.cfg.StatusPath == "" {
		return
	}
	sd := status.Generate(status.Input{
		Reading:   s.Reading,
		Counts:    s.Stats,
		Trends:    s.Trends,
		UpdatedAt: mood.FormatTime(s.UpdatedAt),
	})
	if err := status.WriteJSON(t.cfg.StatusPath, sd); err != nil {
		t.log.Warn("write status", "path", t.cfg.StatusPath, "error", err)
	}
}
