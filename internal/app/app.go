// Package app wires together all adapters and domain logic.
// It provides lifecycle management for moodlens: open the store, restore
// state, run the detection loop, close.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/corey/moodlens/internal/adapters/bbolt"
	"github.com/corey/moodlens/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	Paths   *Paths
	Store   *bbolt.Store
	Tracker *Tracker

	log     *slog.Logger
	period  time.Duration
	started time.Time
}

// Config holds initialization parameters for the App.
type Config struct {
	Root        string // directory holding .moodlens/
	DBPath      string // default: .moodlens/moodlens.db
	Profile     string // bbolt bucket; default "default"
	HistoryCap  int
	TrendWindow time.Duration
	Location    *time.Location
	TickPeriod  time.Duration
	WriteStatus bool
	OnUpdate    func(FrameState)
	Now         func() time.Time
	Logger      *slog.Logger
}

// New creates an App with all dependencies wired. Does not start the loop.
func New(cfg Config) (*App, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	paths := NewPaths(cfg.Root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	store, err := bbolt.NewStore(cfg.DBPath, cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	statusPath := ""
	if cfg.WriteStatus {
		statusPath = paths.Status
	}
	tracker := NewTracker(NewPersistence(store, cfg.Logger), TrackerConfig{
		HistoryCap:  cfg.HistoryCap,
		TrendWindow: cfg.TrendWindow,
		Location:    cfg.Location,
		StatusPath:  statusPath,
		OnUpdate:    cfg.OnUpdate,
		Now:         cfg.Now,
		Logger:      cfg.Logger,
	})

	return &App{
		Paths:   paths,
		Store:   store,
		Tracker: tracker,
		log:     cfg.Logger,
		period:  cfg.TickPeriod,
		started: time.Now(),
	}, nil
}

// NewLoop creates a detection loop feeding this app's tracker.
func (a *App) NewLoop(cam ports.Camera, det ports.Detector) *Loop {
	return NewLoop(cam, det, a.Tracker, LoopConfig{Period: a.period, Logger: a.log})
}

// Wipe deletes all persisted state for the profile and resets memory.
func (a *App) Wipe() error {
	if err := a.Store.DeleteProfile(); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}
	a.Tracker.reset()
	return nil
}

// Uptime returns how long the app has been open.
func (a *App) Uptime() time.Duration {
	return time.Since(a.started)
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
