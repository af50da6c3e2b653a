package mood

import (
	"math"
	"sort"

	"github.com/corey/moodlens/internal/ports"
)

// Reading is the scalar reduction of one frame: the winning mood and its
// confidence as an integer percentage.
type Reading struct {
	Mood       Label
	Score      float64 // raw winning score, [0,1]
	Confidence int     // round(Score*100), clamped to [0,100]
}

// Sample reduces one detection result to at most one reading.
//
// Only the first face is considered. Within its expression vector the
// strictly greatest score wins, with keys visited in lexicographic order so
// ties go to the lexicographically first name. A winning name outside the
// closed set becomes Fallback. ok is false when there is no face, or the
// first face carries no usable score.
func Sample(faces []ports.Face) (Reading, bool) {
	if len(faces) == 0 {
		return Reading{}, false
	}
	name, score, ok := argmax(faces[0].Expressions)
	if !ok {
		return Reading{}, false
	}
	return Reading{
		Mood:       Normalize(name),
		Score:      score,
		Confidence: Percent(score),
	}, true
}

// Percent converts a [0,1] score to a rounded integer percentage in [0,100].
func Percent(score float64) int {
	p := int(math.Round(score * 100))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

func argmax(vec map[string]float64) (string, float64, bool) {
	keys := make([]string, 0, len(vec))
	for k := range vec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestScore, found := "", 0.0, false
	for _, k := range keys {
		v := vec[k]
		if math.IsNaN(v) {
			continue
		}
		if !found || v > bestScore {
			best, bestScore, found = k, v, true
		}
	}
	return best, bestScore, found
}
