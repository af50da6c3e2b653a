package mood

// DefaultSuggestion is returned for any input outside the closed set.
const DefaultSuggestion = "Take a moment to check in with yourself."

var suggestions = map[Label]string{
	Happy:     "Great mood! Consider journaling about what made you happy today.",
	Sad:       "Take a moment to breathe deeply. Would you like to talk about what's bothering you?",
	Angry:     "Try counting to 10 slowly and practice deep breathing exercises.",
	Fearful:   "Remember you're safe. Try grounding exercises: name 5 things you can see.",
	Disgusted: "Consider taking a short break or changing your environment.",
	Surprised: "Take a moment to process your emotions.",
	Neutral:   "This is a good time for mindfulness or meditation.",
}

// Suggest returns the guidance text for a mood. The input is a plain string
// because it may come straight from the detector boundary.
func Suggest(m string) string {
	if s, ok := suggestions[Label(m)]; ok {
		return s
	}
	return DefaultSuggestion
}

var emoji = map[Label]string{
	Happy:     "😊",
	Sad:       "😢",
	Angry:     "😠",
	Disgusted: "🤢",
	Surprised: "😮",
	Fearful:   "😨",
	Neutral:   "😐",
}

// Emoji returns the display glyph for a mood, or 🤔 when unknown.
func Emoji(m string) string {
	if e, ok := emoji[Label(m)]; ok {
		return e
	}
	return "🤔"
}

// ExerciseKind names one of the guided exercises.
type ExerciseKind string

const (
	Breathing  ExerciseKind = "breathing"
	Meditation ExerciseKind = "meditation"
	Grounding  ExerciseKind = "grounding"
)

// Exercise is a short guided routine.
type Exercise struct {
	Kind  ExerciseKind
	Title string
	Steps []string
}

var exercises = map[ExerciseKind]Exercise{
	Breathing: {
		Kind:  Breathing,
		Title: "4-7-8 Breathing Exercise",
		Steps: []string{
			"Exhale completely through your mouth",
			"Close your mouth and inhale through your nose for 4 seconds",
			"Hold your breath for 7 seconds",
			"Exhale completely through your mouth for 8 seconds",
			"Repeat this cycle 4 times",
		},
	},
	Meditation: {
		Kind:  Meditation,
		Title: "Quick Meditation",
		Steps: []string{
			"Find a comfortable sitting position",
			"Close your eyes",
			"Focus on your natural breathing",
			"When your mind wanders, gently return focus to your breath",
			"Practice for 5 minutes",
		},
	},
	Grounding: {
		Kind:  Grounding,
		Title: "5-4-3-2-1 Grounding Exercise",
		Steps: []string{
			"Name 5 things you can see",
			"Name 4 things you can touch",
			"Name 3 things you can hear",
			"Name 2 things you can smell",
			"Name 1 thing you can taste",
		},
	},
}

// ExerciseKinds lists the available exercises in display order.
func ExerciseKinds() []ExerciseKind {
	return []ExerciseKind{Meditation, Breathing, Grounding}
}

// LookupExercise returns the exercise of the given kind.
func LookupExercise(kind string) (Exercise, bool) {
	ex, ok := exercises[ExerciseKind(kind)]
	if !ok {
		return Exercise{}, false
	}
	ex.Steps = append([]string(nil), ex.Steps...)
	return ex, true
}
