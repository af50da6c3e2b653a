package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/corey/moodlens/internal/adapters/bbolt"
	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/domain/journal"
	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/domain/status"
	"github.com/corey/moodlens/internal/domain/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUpdate(t *testing.T) {
	assert.Empty(t, formatUpdate(app.FrameState{}), "nothing before the first reading")

	s := app.FrameState{
		Reading:    &mood.Reading{Mood: mood.Happy, Confidence: 91},
		Suggestion: mood.Suggest("happy"),
		Analysis: &stats.Analysis{
			Dominant:  stats.Share{Mood: mood.Happy, Count: 3, Percentage: 75},
			Secondary: &stats.Share{Mood: mood.Sad, Count: 1, Percentage: 25},
		},
	}
	out := formatUpdate(s)
	assert.Contains(t, out, "😊")
	assert.Contains(t, out, " 91%")
	assert.Contains(t, out, "happy 75%")
	assert.Contains(t, out, "sad 25%")
	assert.Contains(t, out, mood.Suggest("happy"))
}

func TestFormatStatus_NoData(t *testing.T) {
	out := formatStatus(&status.StatusData{}, nil, false)
	assert.Contains(t, out, "(stored)")
	assert.Contains(t, out, "No mood detected yet")
	assert.Contains(t, out, "No mood data available")
	assert.NotContains(t, out, "Based on")
}

func TestFormatStatus_Live(t *testing.T) {
	sd := &status.StatusData{
		Mood: "sad", Emoji: "😢", Confidence: 62, Suggestion: mood.Suggest("sad"),
		Dominant:     &stats.Share{Mood: mood.Happy, Percentage: 75},
		Secondary:    &stats.Share{Mood: mood.Sad, Percentage: 25},
		Measurements: 4,
	}
	out := formatStatus(sd, nil, true)
	assert.Contains(t, out, "(live)")
	assert.Contains(t, out, "😢 sad 62%")
	assert.Contains(t, out, "Based on 4 mood measurements")
	assert.Contains(t, out, "Secondary:  sad 25%")
}

func TestFormatStatus_LastSeen(t *testing.T) {
	last := &mood.Observation{Mood: mood.Fearful, Timestamp: time.Now()}
	out := formatStatus(&status.StatusData{}, last, false)
	assert.Contains(t, out, "Last seen:")
	assert.Contains(t, out, "fearful")
	assert.Contains(t, out, mood.Suggest("fearful"))
}

func TestFormatHistory_NewestFirst(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	out := formatHistory([]mood.Observation{
		{Mood: mood.Angry, Timestamp: t0},
		{Mood: mood.Happy, Timestamp: t0.Add(time.Minute)},
	})
	assert.Contains(t, out, "2 recent moods")
	assert.Less(t, strings.Index(out, "happy"), strings.Index(out, "angry"))

	assert.Contains(t, formatHistory(nil), "no history yet")
}

func TestFormatTrends(t *testing.T) {
	table := trend.Table{
		"2025-03-11": {mood.Sad: 4},
		"2025-03-10": {mood.Happy: 6, mood.Angry: 1},
	}
	out := formatTrends(table, 7*24*time.Hour)
	assert.Contains(t, out, "last 7 days")
	assert.Contains(t, out, "11 observations")
	assert.Less(t, strings.Index(out, "2025-03-10"), strings.Index(out, "2025-03-11"), "days sorted")
	assert.Contains(t, out, colorRed+"happy 6", "more than 5 is high")
	assert.Contains(t, out, colorYellow+"sad 4", "more than 3 is medium")
	assert.Contains(t, out, colorGreen+"angry 1")

	assert.Contains(t, formatTrends(trend.Table{}, 24*time.Hour), "last 1 day")
}

func TestFormatJournal(t *testing.T) {
	happy := mood.Happy
	out := formatJournal([]journal.Entry{
		{Text: "tagged", Mood: &happy, Timestamp: time.Now()},
		{Text: "untagged", Timestamp: time.Now()},
	})
	assert.Contains(t, out, "😊 happy")
	assert.Contains(t, out, "untagged")
	assert.Contains(t, formatJournal(nil), "journal is empty")
}

func TestFormatExercise(t *testing.T) {
	ex, ok := mood.LookupExercise("grounding")
	require.True(t, ok)
	out := formatExercise(ex)
	assert.Contains(t, out, ex.Title)
	assert.Contains(t, out, "5.")
	assert.Contains(t, out, "Name 1 thing you can taste")
}

func TestFormatLoopStats(t *testing.T) {
	out := formatLoopStats(app.LoopStats{Cycles: 3, Detections: 5, NoFace: 1, Skipped: 2}, 3*time.Second)
	assert.Contains(t, out, "3 updates")
	assert.Contains(t, out, "5 frames")
	assert.Contains(t, out, "p50 n/a")

	out = formatLoopStats(app.LoopStats{LatencyP50: 12 * time.Millisecond}, 0)
	assert.Contains(t, out, "p50 12ms")
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(errors.New("permission denied")))
	assert.True(t, isDBLockError(fmt.Errorf("open store: %w", bbolt.ErrLocked)))
	assert.True(t, isDBLockError(errors.New("bbolt open: timeout")))
}

func TestDiagnoseDBLock(t *testing.T) {
	paths := app.NewPaths(t.TempDir())

	assert.Contains(t, diagnoseDBLock(paths), "locked by another process")

	require.NoError(t, paths.WritePID(os.Getpid()))
	assert.Contains(t, diagnoseDBLock(paths), "running detection loop")

	require.NoError(t, paths.WritePID(1<<30))
	msg := diagnoseDBLock(paths)
	assert.Contains(t, msg, "not running")
	assert.Contains(t, msg, paths.PIDFile)
}
