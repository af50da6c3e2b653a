package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Shape(t *testing.T) {
	ts := time.Date(2025, 2, 3, 10, 11, 12, 345_000_000, time.Local)
	now := ts.Add(time.Hour)
	history := []mood.Observation{
		{Mood: mood.Happy, Timestamp: ts},
		{Mood: mood.Sad, Timestamp: ts.Add(time.Second)},
	}
	counts := stats.New()
	counts.Increment(mood.Happy)
	counts.Increment(mood.Happy)
	counts.Increment(mood.Sad)

	data, err := Build(history, counts, now).Encode()
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Len(t, generic, 3)
	assert.Contains(t, generic, "moodHistory")
	assert.Contains(t, generic, "moodStats")
	assert.Contains(t, generic, "exportDate")

	var parsed struct {
		MoodHistory []struct {
			Mood      string `json:"mood"`
			Timestamp string `json:"timestamp"`
		} `json:"moodHistory"`
		MoodStats  map[string]int `json:"moodStats"`
		ExportDate string         `json:"exportDate"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, map[string]int{"happy": 2, "sad": 1}, parsed.MoodStats)
	require.Len(t, parsed.MoodHistory, 2)
	for i, h := range parsed.MoodHistory {
		assert.Equal(t, string(history[i].Mood), h.Mood)
		back, err := time.Parse(time.RFC3339, h.Timestamp)
		require.NoError(t, err)
		assert.True(t, back.Truncate(time.Second).Equal(history[i].Timestamp.Truncate(time.Second)))
	}
	exported, err := time.Parse(time.RFC3339, parsed.ExportDate)
	require.NoError(t, err)
	assert.True(t, exported.Equal(now.Truncate(time.Millisecond)))
}

func TestBuild_EmptyState(t *testing.T) {
	data, err := Build(nil, nil, time.Unix(0, 0)).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"moodHistory":[],"moodStats":{},"exportDate":"1970-01-01T00:00:00.000Z"}`, string(data))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, Build(nil, nil, time.Now()).WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
