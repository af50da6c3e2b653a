// Package status generates the current-frame projection for moodlens.
//
// The tracker writes a JSON status file after every update cycle. An overlay
// or widget reads this JSON and renders the current mood, its confidence, the
// suggestion, and the dominant/secondary breakdown.
package status

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/domain/trend"
)

// StatusFile is the filename within the .moodlens directory where status JSON is written.
const StatusFile = "status.json"

// StatusData is the JSON payload written for the display to read.
type StatusData struct {
	Mood         string       `json:"mood,omitempty"`
	Emoji        string       `json:"emoji,omitempty"`
	Confidence   int          `json:"confidence"`
	Suggestion   string       `json:"suggestion,omitempty"`
	Dominant     *stats.Share `json:"dominant,omitempty"`
	Secondary    *stats.Share `json:"secondary,omitempty"`
	Measurements int          `json:"measurements"`
	TopMoods     []string     `json:"top_moods"`
	TrendDays    int          `json:"trend_days"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

// Input is everything the projection is derived from.
type Input struct {
	Reading   *mood.Reading // nil before the first face
	Counts    *stats.Counts
	Trends    trend.Table
	UpdatedAt string
}

// Generate produces a StatusData from the current frame and statistics.
func Generate(in Input) *StatusData {
	sd := &StatusData{
		TopMoods:  topMoods(in.Counts, 3),
		TrendDays: len(in.Trends),
		UpdatedAt: in.UpdatedAt,
	}
	if r := in.Reading; r != nil {
		sd.Mood = string(r.Mood)
		sd.Emoji = mood.Emoji(string(r.Mood))
		sd.Confidence = r.Confidence
		sd.Suggestion = mood.Suggest(string(r.Mood))
	}
	if in.Counts != nil {
		sd.Measurements = in.Counts.Total()
		if a, ok := in.Counts.DominantAndSecondary(); ok {
			dom := a.Dominant
			sd.Dominant = &dom
			sd.Secondary = a.Secondary
		}
	}
	return sd
}

// WriteJSON writes the status data as JSON to a file. The file is replaced
// by rename so readers never see a partial write.
func WriteJSON(path string, data *StatusData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// ReadJSON reads a status file written by WriteJSON.
func ReadJSON(path string) (*StatusData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sd StatusData
	if err := json.Unmarshal(b, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// topMoods returns the top N mood names by share.
func topMoods(counts *stats.Counts, n int) []string {
	if counts == nil {
		return nil
	}
	shares := counts.Shares()
	limit := n
	if limit > len(shares) {
		limit = len(shares)
	}

	result := make([]string, limit)
	for i := 0; i < limit; i++ {
		result[i] = string(shares[i].Mood)
	}
	return result
}
