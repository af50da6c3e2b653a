package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/corey/moodlens/internal/adapters/framefile"
	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/ports"
	"github.com/spf13/cobra"
)

var (
	runFrames string
	runFollow bool
	runTick   time.Duration
	runQuiet  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the detection loop",
	Long: "Reads face detections from a JSONL frame file and updates mood history, " +
		"statistics and trends on every tick. With --follow the file is tailed until Ctrl-C.",
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFrames, "frames", "", "JSONL frame file (default from config)")
	runCmd.Flags().BoolVarP(&runFollow, "follow", "f", false, "Keep reading as the file grows")
	runCmd.Flags().DurationVar(&runTick, "tick", 0, "Tick period (default from config, 100ms)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Do not print each update")
}

func runRun(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("frames") {
		cfg.Capture.Frames = runFrames
	}
	if cmd.Flags().Changed("follow") {
		cfg.Capture.Follow = runFollow
	}
	if runTick > 0 {
		cfg.Tracking.TickMS = int(runTick / time.Millisecond)
		if cfg.Tracking.TickMS == 0 {
			cfg.Tracking.TickMS = 1
		}
	}

	frames := cfg.Capture.Frames
	if !filepath.IsAbs(frames) {
		frames = filepath.Join(projectRoot(), frames)
	}

	var onUpdate func(app.FrameState)
	if !runQuiet {
		onUpdate = func(s app.FrameState) {
			if line := formatUpdate(s); line != "" {
				fmt.Println(line)
			}
		}
	}

	a, err := openApp(onUpdate)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Paths.WritePID(os.Getpid()); err != nil {
		logger.Warn("write pid file", "error", err)
	}
	defer a.Paths.CleanEphemeral()

	src := framefile.New(framefile.Config{Path: frames, Follow: cfg.Capture.Follow, Logger: logger})
	loop := a.NewLoop(src, src)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("⚡ tracking moods from %s (every %s)\n", frames, cfg.TickPeriod())
	err = loop.Run(ctx)
	fmt.Println()
	fmt.Println(formatLoopStats(loop.Stats(), a.Uptime()))

	if errors.Is(err, ports.ErrCapabilityUnavailable) {
		fmt.Fprintf(os.Stderr, "%s✗ mood detection is unavailable%s\n  %v\n  → check that the frame source exists and the detector is producing frames\n",
			colorRed, colorReset, err)
	}
	return err
}
