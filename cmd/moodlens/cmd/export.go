package cmd

import (
	"fmt"

	"github.com/corey/moodlens/internal/domain/export"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write mood history and statistics to a JSON file",
	Long:  "Writes {moodHistory, moodStats, exportDate} to mood-tracking-data.json (or --out). Journal entries are not exported.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (default from config, else "+export.DefaultFilename+")")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := exportOut
	if path == "" {
		path = cfg.Output.ExportPath
	}
	if path == "" {
		path = export.DefaultFilename
	}

	a, err := openApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	artifact := a.Tracker.Export()
	if err := artifact.WriteFile(path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("⚡ exported %d moods to %s\n", len(artifact.MoodHistory), path)
	return nil
}
