package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/corey/moodlens/internal/adapters/bbolt"
	"github.com/corey/moodlens/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bbolt.ErrLocked) || strings.Contains(err.Error(), "timeout")
}

// processAlive reports whether pid names a live process.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// diagnoseDBLock checks the run state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: detection loop running, stale PID file, and unknown lock holder.
func diagnoseDBLock(paths *app.Paths) string {
	pid := paths.ReadPID()

	if processAlive(pid) {
		return fmt.Sprintf("database is locked by the running detection loop (pid %d)\n"+
			"  → stop it first:  Ctrl-C in its terminal, or kill %d\n"+
			"  → then retry your command", pid, pid)
	}

	if pid > 0 {
		return fmt.Sprintf("database is locked — PID file names %d but it is not running\n"+
			"  → a previous run may have crashed\n"+
			"  → find the process:  ps aux | grep 'moodlens'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up:          rm %s", pid, paths.PIDFile)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'moodlens'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
