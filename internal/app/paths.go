package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/corey/moodlens/internal/domain/status"
)

// Paths holds all resolved filesystem paths for the .moodlens/ directory.
// All fields are pre-computed strings.
type Paths struct {
	Root   string // .moodlens/
	DB     string // .moodlens/moodlens.db
	Status string // .moodlens/status.json
	Config string // .moodlens/config.yaml

	RunDir  string // .moodlens/run/
	PIDFile string // .moodlens/run/run.pid
}

// NewPaths constructs all resolved paths from a root directory.
func NewPaths(root string) *Paths {
	dir := filepath.Join(root, ".moodlens")
	return &Paths{
		Root:   dir,
		DB:     filepath.Join(dir, "moodlens.db"),
		Status: filepath.Join(dir, status.StatusFile),
		Config: filepath.Join(dir, "config.yaml"),

		RunDir:  filepath.Join(dir, "run"),
		PIDFile: filepath.Join(dir, "run", "run.pid"),
	}
}

// EnsureDirs creates all subdirectories under .moodlens/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// WritePID records the running detection loop's process ID.
func (p *Paths) WritePID(pid int) error {
	if err := os.MkdirAll(p.RunDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(p.PIDFile, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

// ReadPID returns the recorded loop PID, or 0 if none is recorded.
func (p *Paths) ReadPID() int {
	b, err := os.ReadFile(p.PIDFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return pid
}

// CleanEphemeral removes ephemeral runtime files (the PID file).
// Called on clean loop shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
}
