package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/corey/moodlens/internal/domain/history"
	"github.com/corey/moodlens/internal/domain/journal"
	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/ports"
)

// Storage keys. Values are JSON text.
const (
	KeyHistory = "moodHistory"
	KeyStats   = "moodStats"
	KeyJournal = "moodJournal"
)

// Persistence maps the state containers to a key-value store.
// Loads never fail: absent, unreadable or malformed values come back empty
// and are logged. Saves return their error.
type Persistence struct {
	kv  ports.KVStore
	log *slog.Logger
}

// NewPersistence wraps kv. A nil logger uses slog.Default().
func NewPersistence(kv ports.KVStore, log *slog.Logger) *Persistence {
	if log == nil {
		log = slog.Default()
	}
	return &Persistence{kv: kv, log: log.With("component", "persistence")}
}

// LoadHistory restores the history buffer with the given capacity.
func (p *Persistence) LoadHistory(capacity int) *history.Buffer {
	var obs []mood.Observation
	if !p.load(KeyHistory, &obs) {
		return history.New(capacity)
	}
	return history.FromObservations(capacity, obs)
}

// SaveHistory overwrites the stored history.
func (p *Persistence) SaveHistory(b *history.Buffer) error {
	return p.save(KeyHistory, b.All())
}

// LoadStats restores the cumulative counts, first-observed order included.
func (p *Persistence) LoadStats() *stats.Counts {
	c := stats.New()
	if !p.load(KeyStats, c) {
		return stats.New()
	}
	return c
}

// SaveStats overwrites the stored counts.
func (p *Persistence) SaveStats(c *stats.Counts) error {
	return p.save(KeyStats, c)
}

// LoadJournal restores the journal entries.
func (p *Persistence) LoadJournal() *journal.Journal {
	var entries []journal.Entry
	if !p.load(KeyJournal, &entries) {
		return journal.New()
	}
	return journal.FromEntries(entries)
}

// SaveJournal overwrites the stored journal.
func (p *Persistence) SaveJournal(j *journal.Journal) error {
	return p.save(KeyJournal, j.Entries())
}

// load decodes the value at key into v. Returns false when the caller
// should fall back to an empty value.
func (p *Persistence) load(key string, v any) bool {
	raw, ok, err := p.kv.Get(key)
	if err != nil {
		p.log.Warn("state unreadable, starting empty", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		p.log.Warn("state malformed, starting empty", "key", key, "error", err)
		return false
	}
	return true
}

func (p *Persistence) save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.kv.Set(key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
