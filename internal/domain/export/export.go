// Package export builds the downloadable mood data artifact.
//
// Shape:
//
//	{ "moodHistory": [ { "mood": "happy", "timestamp": "2025-01-02T03:04:05.000Z" } ],
//	  "moodStats":   { "happy": 3 },
//	  "exportDate":  "2025-01-02T03:04:06.000Z" }
//
// The journal is not part of the artifact.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
)

// DefaultFilename is the suggested name for the exported file.
const DefaultFilename = "mood-tracking-data.json"

// Artifact is the export payload.
type Artifact struct {
	MoodHistory []mood.Observation `json:"moodHistory"`
	MoodStats   *stats.Counts      `json:"moodStats"`
	ExportDate  string             `json:"exportDate"`
}

// Build assembles an artifact from snapshots taken at the same moment.
func Build(history []mood.Observation, counts *stats.Counts, now time.Time) *Artifact {
	if history == nil {
		history = []mood.Observation{}
	}
	if counts == nil {
		counts = stats.New()
	}
	return &Artifact{
		MoodHistory: history,
		MoodStats:   counts,
		ExportDate:  mood.FormatTime(now),
	}
}

// Encode renders the artifact as indented JSON.
func (a *Artifact) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the encoded artifact to path.
func (a *Artifact) WriteFile(path string) error {
	data, err := a.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
