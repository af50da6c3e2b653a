package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [mood]",
	Short: "Print the suggestion for a mood (default: the last recorded mood)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSuggest,
}

var exerciseCmd = &cobra.Command{
	Use:       "exercise [breathing|meditation|grounding]",
	Short:     "Show a guided exercise, or list them",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(mood.Breathing), string(mood.Meditation), string(mood.Grounding)},
	RunE:      runExercise,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = strings.ToLower(strings.TrimSpace(args[0]))
	} else {
		a, err := openApp(nil)
		if err != nil {
			return err
		}
		hist := a.Tracker.Snapshot().History
		a.Close()
		if len(hist) > 0 {
			name = string(hist[len(hist)-1].Mood)
		}
	}

	fmt.Printf("%s %s\n", mood.Emoji(name), mood.Suggest(name))
	return nil
}

func runExercise(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, k := range mood.ExerciseKinds() {
			ex, _ := mood.LookupExercise(string(k))
			fmt.Printf("  %s%-11s%s %s\n", colorCyan, k, colorReset, ex.Title)
		}
		return nil
	}

	ex, ok := mood.LookupExercise(strings.ToLower(args[0]))
	if !ok {
		return fmt.Errorf("unknown exercise %q (want breathing, meditation or grounding)", args[0])
	}
	fmt.Print(formatExercise(ex))
	return nil
}
