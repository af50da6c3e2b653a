package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/status"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current mood and dominant/secondary breakdown",
	Long:  "Shows the live status while a detection loop is running, otherwise the stored statistics.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths := app.NewPaths(projectRoot())

	// A running loop holds the database; read what it publishes instead.
	if processAlive(paths.ReadPID()) {
		if sd, err := status.ReadJSON(paths.Status); err == nil {
			return printStatus(sd, nil, true)
		}
	}

	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.Tracker.Snapshot()
	sd := status.Generate(status.Input{
		Counts:    snap.Stats,
		Trends:    snap.State.Trends,
		UpdatedAt: mood.FormatTime(snap.State.UpdatedAt),
	})
	var last *mood.Observation
	if n := len(snap.History); n > 0 {
		last = &snap.History[n-1]
	}
	return printStatus(sd, last, false)
}

func printStatus(sd *status.StatusData, last *mood.Observation, live bool) error {
	if statusJSON {
		b, err := json.MarshalIndent(sd, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	fmt.Print(formatStatus(sd, last, live))
	return nil
}
