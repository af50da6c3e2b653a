// Package mood holds the closed set of mood labels and the pure functions
// built on them: frame sampling, suggestions, emoji, and guided exercises.
package mood

import (
	"encoding/json"
	"fmt"
	"time"
)

// Label is one of the seven discrete moods the tracker reasons about.
type Label string

const (
	Angry     Label = "angry"
	Disgusted Label = "disgusted"
	Fearful   Label = "fearful"
	Happy     Label = "happy"
	Neutral   Label = "neutral"
	Sad       Label = "sad"
	Surprised Label = "surprised"
)

// Fallback replaces any label the detector reports outside the closed set.
const Fallback = Neutral

// labels is the canonical (lexicographic) order.
var labels = []Label{Angry, Disgusted, Fearful, Happy, Neutral, Sad, Surprised}

// Labels returns all labels in lexicographic order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// Valid reports whether l belongs to the closed set.
func (l Label) Valid() bool {
	switch l {
	case Angry, Disgusted, Fearful, Happy, Neutral, Sad, Surprised:
		return true
	}
	return false
}

func (l Label) String() string { return string(l) }

// Parse returns the label named s, or an error if s is not in the set.
func Parse(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return l, nil
}

// Normalize maps s to its label, substituting Fallback for unknown names.
func Normalize(s string) Label {
	if l, err := Parse(s); err == nil {
		return l
	}
	return Fallback
}

// TimeLayout is the ISO-8601 form used for every persisted or exported
// timestamp: UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Observation is one (mood, timestamp) sample derived from a single frame.
type Observation struct {
	Mood      Label
	Timestamp time.Time
}

type observationJSON struct {
	Mood      string `json:"mood"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON encodes the observation as {"mood","timestamp"} with an
// ISO-8601 timestamp.
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(observationJSON{Mood: string(o.Mood), Timestamp: FormatTime(o.Timestamp)})
}

// UnmarshalJSON accepts any RFC 3339 timestamp. Unknown moods fall back to
// Fallback rather than failing the whole record.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var raw observationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", raw.Timestamp, err)
	}
	o.Mood = Normalize(raw.Mood)
	o.Timestamp = ts
	return nil
}
