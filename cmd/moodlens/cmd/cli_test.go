package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCLI_EndToEnd(t *testing.T) {
	t.Setenv(config.EnvDotEnv, "0")
	root := t.TempDir()
	frames := filepath.Join(root, "frames.jsonl")
	require.NoError(t, os.WriteFile(frames, []byte(
		`{"faces":[{"expressions":{"happy":0.9}}]}`+"\n"+
			`{"faces":[{"expressions":{"happy":0.8}}]}`+"\n"+
			`{"faces":[{"expressions":{"sad":0.7}}]}`+"\n"), 0644))

	require.NoError(t, execute(t, "--root", root, "init"))
	assert.FileExists(t, config.Path(root))

	require.NoError(t, execute(t, "--root", root, "run", "--frames", frames, "--tick", "1ms", "--quiet"))
	paths := app.NewPaths(root)
	assert.NoFileExists(t, paths.PIDFile, "PID file removed on exit")
	assert.FileExists(t, paths.Status)

	require.NoError(t, execute(t, "--root", root, "status"))
	require.NoError(t, execute(t, "--root", root, "history"))
	require.NoError(t, execute(t, "--root", root, "trends"))
	require.NoError(t, execute(t, "--root", root, "journal", "add", "long", "day"))
	require.NoError(t, execute(t, "--root", root, "journal", "list"))
	require.NoError(t, execute(t, "--root", root, "suggest"))
	require.NoError(t, execute(t, "--root", root, "exercise", "breathing"))
	assert.Error(t, execute(t, "--root", root, "exercise", "yoga"))

	out := filepath.Join(root, "export.json")
	require.NoError(t, execute(t, "--root", root, "export", "--out", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var artifact struct {
		MoodHistory []json.RawMessage `json:"moodHistory"`
		MoodStats   map[string]int    `json:"moodStats"`
	}
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Len(t, artifact.MoodHistory, 3)
	assert.Equal(t, map[string]int{"happy": 2, "sad": 1}, artifact.MoodStats)

	require.NoError(t, execute(t, "--root", root, "wipe", "--force"))
	a, err := app.New(app.Config{Root: root})
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.Tracker.Snapshot().History)
	assert.Empty(t, a.Tracker.Snapshot().Journal)
}
