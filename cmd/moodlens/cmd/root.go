package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/config"
	"github.com/spf13/cobra"
)

var (
	rootFlag     string
	profileFlag  string
	dbFlag       string
	logLevelFlag string
)

// Resolved once per invocation in PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "moodlens",
	Short: "moodlens — mood tracking from facial expressions",
	Long:  "Samples facial-expression detections, keeps mood history and statistics, and suggests what to do about it.",

	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// projectRoot returns the directory holding .moodlens/ (cwd by default).
func projectRoot() string {
	if rootFlag != "" {
		return rootFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(projectRoot())
	if err != nil {
		return err
	}
	if profileFlag != "" {
		c.Profile = profileFlag
	}
	if dbFlag != "" {
		c.Output.DBPath = dbFlag
	}
	if logLevelFlag != "" {
		c.LogLevel = logLevelFlag
	}
	level, err := c.Level()
	if err != nil {
		return err
	}

	cfg = c
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// openApp opens the store and restores state. Lock contention is turned into
// guidance on how to free the database.
func openApp(onUpdate func(app.FrameState)) (*app.App, error) {
	root := projectRoot()
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Config{
		Root:        root,
		DBPath:      cfg.Output.DBPath,
		Profile:     cfg.Profile,
		HistoryCap:  cfg.Tracking.HistoryCapacity,
		TrendWindow: cfg.TrendWindow(),
		Location:    loc,
		TickPeriod:  cfg.TickPeriod(),
		WriteStatus: cfg.Output.StatusFile,
		OnUpdate:    onUpdate,
		Logger:      logger,
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(app.NewPaths(root)))
		}
		return nil, err
	}
	logger.Debug("store opened", "db", a.Store.Path(), "profile", cfg.Profile)
	return a, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Directory holding .moodlens/ (default: cwd)")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "State profile (default from config)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Database path (default .moodlens/moodlens.db)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(exerciseCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(wipeCmd)
}
