// moodlens tracks facial-expression moods from a camera feed.
// Single binary, local state: live mood, trends, journal and export.
package main

import (
	"os"

	"github.com/corey/moodlens/cmd/moodlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
