package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/domain/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Basic(t *testing.T) {
	counts := stats.New()
	for _, m := range []mood.Label{mood.Happy, mood.Happy, mood.Happy, mood.Sad} {
		counts.Increment(m)
	}
	reading := &mood.Reading{Mood: mood.Sad, Score: 0.62, Confidence: 62}

	data := Generate(Input{
		Reading:   reading,
		Counts:    counts,
		Trends:    trend.Table{"2025-01-01": {mood.Happy: 1}},
		UpdatedAt: "2025-01-01T00:00:00.000Z",
	})

	assert.Equal(t, "sad", data.Mood)
	assert.Equal(t, "😢", data.Emoji)
	assert.Equal(t, 62, data.Confidence)
	assert.Equal(t, mood.Suggest("sad"), data.Suggestion)
	assert.Equal(t, 4, data.Measurements)
	require.NotNil(t, data.Dominant)
	assert.Equal(t, mood.Happy, data.Dominant.Mood)
	assert.Equal(t, 75, data.Dominant.Percentage)
	require.NotNil(t, data.Secondary)
	assert.Equal(t, 25, data.Secondary.Percentage)
	assert.Equal(t, []string{"happy", "sad"}, data.TopMoods)
	assert.Equal(t, 1, data.TrendDays)
}

func TestGenerate_EmptyState(t *testing.T) {
	data := Generate(Input{Counts: stats.New()})
	assert.Empty(t, data.Mood)
	assert.Nil(t, data.Dominant)
	assert.Nil(t, data.Secondary)
	assert.Equal(t, 0, data.Measurements)
	assert.Empty(t, data.TopMoods)
}

func TestGenerate_TopMoodsCapped(t *testing.T) {
	counts := stats.New()
	for i, m := range mood.Labels() {
		for k := 0; k <= i; k++ {
			counts.Increment(m)
		}
	}
	data := Generate(Input{Counts: counts})
	assert.Equal(t, []string{"surprised", "sad", "neutral"}, data.TopMoods)
}

func TestWriteReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatusFile)
	in := &StatusData{Mood: "happy", Confidence: 88, Measurements: 3, TopMoods: []string{"happy"}}

	require.NoError(t, WriteJSON(path, in))
	out, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteJSON_ReadersNeverSeePartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, StatusFile)
	sd := &StatusData{Mood: "happy", Confidence: 88, Measurements: 3, TopMoods: []string{"happy", "sad", "neutral"}}
	require.NoError(t, WriteJSON(path, sd))

	stop := make(chan struct{})
	writerDone := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				writerDone <- nil
				return
			default:
			}
			if err := WriteJSON(path, sd); err != nil {
				writerDone <- err
				return
			}
		}
	}()

	failed := 0
	for i := 0; i < 2000; i++ {
		got, err := ReadJSON(path)
		if err != nil || got.Mood != "happy" {
			failed++
		}
	}
	close(stop)
	require.NoError(t, <-writerDone)
	assert.Zero(t, failed, "reads during concurrent writes")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, StatusFile, entries[0].Name())
}
