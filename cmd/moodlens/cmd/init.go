package cmd

import (
	"fmt"
	"os"

	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .moodlens/ with a default config",
	Long:  "Creates the .moodlens directory layout and writes config.yaml. Existing config is kept unless --force is given.",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)

	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create .moodlens dirs: %w", err)
	}

	if _, err := os.Stat(paths.Config); err == nil && !initForce {
		fmt.Printf("⚡ config already exists at %s (use --force to overwrite)\n", paths.Config)
	} else {
		if err := config.WriteConfig(root, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("⚡ wrote %s\n", paths.Config)
	}

	// Opening once creates the database file and proves it is not locked.
	a, err := openApp(nil)
	if err != nil {
		return fmt.Errorf("cannot init: %w", err)
	}
	defer a.Close()

	fmt.Printf("⚡ moodlens ready in %s\n", paths.Root)
	fmt.Printf("  %snext: moodlens run --frames <file.jsonl>%s\n", colorGray, colorReset)
	return nil
}
