package cmd

import (
	"fmt"

	"github.com/corey/moodlens/internal/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows paths, loop status, and the effective configuration after .env and MOODLENS_* overrides. No database access.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	dbPath := cfg.Output.DBPath
	if dbPath == "" {
		dbPath = paths.DB
	}

	loopStatus := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if pid := paths.ReadPID(); processAlive(pid) {
		loopStatus = fmt.Sprintf("%s✓ running (pid %d)%s", colorGreen, pid, colorReset)
	}

	fmt.Printf("%s⚡ moodlens config%s\n", colorBold, colorReset)
	fmt.Printf("  Root:       %s\n", root)
	fmt.Printf("  Config:     %s\n", paths.Config)
	fmt.Printf("  DB:         %s\n", dbPath)
	fmt.Printf("  Profile:    %s\n", cfg.Profile)
	fmt.Printf("  Status:     %s\n", paths.Status)
	fmt.Printf("  Loop:       %s\n", loopStatus)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s%s%s", colorGray, out, colorReset)
	return nil
}
