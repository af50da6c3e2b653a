package mood

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/corey/moodlens/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func face(expr map[string]float64) ports.Face {
	return ports.Face{Expressions: expr}
}

func TestSample_NoFaces(t *testing.T) {
	_, ok := Sample(nil)
	assert.False(t, ok)

	_, ok = Sample([]ports.Face{})
	assert.False(t, ok)
}

func TestSample_PicksMaxOfFirstFace(t *testing.T) {
	faces := []ports.Face{
		face(map[string]float64{"happy": 0.12, "sad": 0.81, "neutral": 0.07}),
		face(map[string]float64{"happy": 0.99}),
	}

	r, ok := Sample(faces)
	require.True(t, ok)
	assert.Equal(t, Sad, r.Mood, "second face must be ignored even with a higher score")
	assert.Equal(t, 81, r.Confidence)
	assert.InDelta(t, 0.81, r.Score, 1e-9)
}

func TestSample_TieBreakIsLexicographic(t *testing.T) {
	r, ok := Sample([]ports.Face{face(map[string]float64{
		"surprised": 0.5,
		"angry":     0.5,
		"happy":     0.5,
	})})
	require.True(t, ok)
	assert.Equal(t, Angry, r.Mood)

	// Run several times: map iteration order must not leak into the result.
	for i := 0; i < 20; i++ {
		r, _ := Sample([]ports.Face{face(map[string]float64{"sad": 0.4, "fearful": 0.4})})
		assert.Equal(t, Fearful, r.Mood)
	}
}

func TestSample_UnknownLabelFallsBack(t *testing.T) {
	r, ok := Sample([]ports.Face{face(map[string]float64{"contempt": 0.9, "happy": 0.1})})
	require.True(t, ok)
	assert.Equal(t, Fallback, r.Mood)
	assert.Equal(t, 90, r.Confidence)
}

func TestSample_EmptyOrNaNVector(t *testing.T) {
	_, ok := Sample([]ports.Face{face(nil)})
	assert.False(t, ok)

	_, ok = Sample([]ports.Face{face(map[string]float64{"happy": math.NaN()})})
	assert.False(t, ok)

	r, ok := Sample([]ports.Face{face(map[string]float64{"happy": math.NaN(), "sad": 0.3})})
	require.True(t, ok)
	assert.Equal(t, Sad, r.Mood)
}

func TestPercent_RoundsAndClamps(t *testing.T) {
	assert.Equal(t, 0, Percent(0))
	assert.Equal(t, 100, Percent(1))
	assert.Equal(t, 50, Percent(0.496))
	assert.Equal(t, 49, Percent(0.494))
	assert.Equal(t, 100, Percent(1.3))
	assert.Equal(t, 0, Percent(-0.2))
}

func TestParseAndNormalize(t *testing.T) {
	for _, l := range Labels() {
		got, err := Parse(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
		assert.Equal(t, l, Normalize(string(l)))
	}
	_, err := Parse("Happy")
	assert.Error(t, err, "labels are case-sensitive")
	assert.Equal(t, Neutral, Normalize("bored"))
}

func TestLabels_LexicographicAndCopied(t *testing.T) {
	ls := Labels()
	require.Len(t, ls, 7)
	for i := 1; i < len(ls); i++ {
		assert.Less(t, string(ls[i-1]), string(ls[i]))
	}
	ls[0] = "mutated"
	assert.Equal(t, Angry, Labels()[0])
}

func TestSuggest_TotalAndPure(t *testing.T) {
	seen := make(map[string]bool)
	for _, l := range Labels() {
		s := Suggest(string(l))
		assert.NotEmpty(t, s, "mood %s", l)
		assert.Equal(t, s, Suggest(string(l)))
		seen[s] = true
	}
	assert.Len(t, seen, 7, "every mood has its own text")
	assert.Equal(t, DefaultSuggestion, Suggest("bored"))
	assert.Equal(t, DefaultSuggestion, Suggest(""))
}

func TestEmoji(t *testing.T) {
	assert.Equal(t, "😊", Emoji("happy"))
	assert.Equal(t, "🤔", Emoji("bored"))
}

func TestLookupExercise(t *testing.T) {
	for _, k := range ExerciseKinds() {
		ex, ok := LookupExercise(string(k))
		require.True(t, ok)
		assert.Equal(t, k, ex.Kind)
		assert.Len(t, ex.Steps, 5)
	}
	_, ok := LookupExercise("yoga")
	assert.False(t, ok)

	ex, _ := LookupExercise("breathing")
	ex.Steps[0] = "changed"
	again, _ := LookupExercise("breathing")
	assert.Equal(t, "Exhale completely through your mouth", again.Steps[0])
}

func TestObservation_JSONRoundtrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.FixedZone("X", 3600))
	obs := Observation{Mood: Happy, Timestamp: ts}

	data, err := json.Marshal(obs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"happy","timestamp":"2025-03-14T08:26:53.589Z"}`, string(data))

	var back Observation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Happy, back.Mood)
	assert.True(t, back.Timestamp.Equal(ts.Truncate(time.Millisecond)))
}

func TestObservation_UnmarshalRejectsBadTimestamp(t *testing.T) {
	var o Observation
	assert.Error(t, json.Unmarshal([]byte(`{"mood":"sad","timestamp":"yesterday"}`), &o))
}
