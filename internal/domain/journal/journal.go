// Package journal is the append-only mood journal: free text annotated with
// the mood current at the time of writing.
package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/google/uuid"
)

// Entry is one journal record. Mood is nil when no mood was known.
type Entry struct {
	ID        string
	Text      string
	Mood      *mood.Label
	Timestamp time.Time
}

type entryJSON struct {
	ID        string  `json:"id,omitempty"`
	Text      string  `json:"text"`
	Mood      *string `json:"mood"`
	Timestamp string  `json:"timestamp"`
}

// MarshalJSON encodes the entry with an ISO-8601 timestamp.
func (e Entry) MarshalJSON() ([]byte, error) {
	raw := entryJSON{ID: e.ID, Text: e.Text, Timestamp: mood.FormatTime(e.Timestamp)}
	if e.Mood != nil {
		s := string(*e.Mood)
		raw.Mood = &s
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes an entry. Unknown moods fall back to mood.Fallback.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", raw.Timestamp, err)
	}
	*e = Entry{ID: raw.ID, Text: raw.Text, Timestamp: ts}
	if raw.Mood != nil {
		m := mood.Normalize(*raw.Mood)
		e.Mood = &m
	}
	return nil
}

// Journal is an unbounded, append-only list of entries.
// Not thread-safe; the owning tracker serializes access.
type Journal struct {
	entries []Entry
	newID   func() string
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{newID: uuid.NewString}
}

// FromEntries rebuilds a journal from persisted entries.
func FromEntries(entries []Entry) *Journal {
	j := New()
	j.entries = append([]Entry(nil), entries...)
	return j
}

// Submit appends text with the given mood at time now. Text that is empty
// after trimming is rejected: nothing is appended and ok is false. The text
// is stored as given, not trimmed.
func (j *Journal) Submit(text string, current *mood.Label, now time.Time) (Entry, bool) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, false
	}
	e := Entry{ID: j.newID(), Text: text, Timestamp: now}
	if current != nil {
		m := *current
		e.Mood = &m
	}
	j.entries = append(j.entries, e)
	return e, true
}

// Entries returns a copy of all entries, oldest first.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int { return len(j.entries) }
