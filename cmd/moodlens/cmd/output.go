package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/moodlens/internal/app"
	"github.com/corey/moodlens/internal/domain/journal"
	"github.com/corey/moodlens/internal/domain/mood"
	"github.com/corey/moodlens/internal/domain/stats"
	"github.com/corey/moodlens/internal/domain/status"
	"github.com/corey/moodlens/internal/domain/trend"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// clockLayout is how timestamps are shown to the user (local time).
const clockLayout = "2006-01-02 15:04:05"

// formatUpdate renders one update cycle as a single line for `run`.
//
//	😊 happy  91% │ happy 75% · sad 25% │ Keep up the positive energy!
func formatUpdate(s app.FrameState) string {
	if s.Reading == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s%-9s%s %3d%%",
		mood.Emoji(string(s.Reading.Mood)), colorBold, s.Reading.Mood, colorReset, s.Reading.Confidence))
	if s.Analysis != nil {
		sb.WriteString(" │ ")
		sb.WriteString(formatShares(s.Analysis))
	}
	if s.Suggestion != "" {
		sb.WriteString(fmt.Sprintf(" │ %s%s%s", colorGray, s.Suggestion, colorReset))
	}
	return sb.String()
}

// formatShares renders dominant and secondary moods.
func formatShares(a *stats.Analysis) string {
	out := fmt.Sprintf("%s%s %d%%%s", colorCyan, a.Dominant.Mood, a.Dominant.Percentage, colorReset)
	if a.Secondary != nil {
		out += fmt.Sprintf(" · %s %d%%", a.Secondary.Mood, a.Secondary.Percentage)
	}
	return out
}

// formatStatus renders the status report. sd comes from the live status file
// when a loop is running; last is the most recent recorded observation.
//
//	⚡ moodlens status (live)
//	  Current:    😢 sad 62%
//	  Suggestion: Try some deep breathing exercises...
//	  Dominant:   happy 75%
//	  Secondary:  sad 25%
//	  Based on 4 mood measurements
func formatStatus(sd *status.StatusData, last *mood.Observation, live bool) string {
	var sb strings.Builder
	mode := fmt.Sprintf("%s(stored)%s", colorGray, colorReset)
	if live {
		mode = fmt.Sprintf("%s(live)%s", colorGreen, colorReset)
	}
	sb.WriteString(fmt.Sprintf("%s⚡ moodlens status%s %s\n", colorBold, colorReset, mode))

	switch {
	case sd.Mood != "":
		sb.WriteString(fmt.Sprintf("  Current:    %s %s %d%%\n", sd.Emoji, sd.Mood, sd.Confidence))
		sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", sd.Suggestion))
	case last != nil:
		sb.WriteString(fmt.Sprintf("  Last seen:  %s %s %sat %s%s\n",
			mood.Emoji(string(last.Mood)), last.Mood, colorGray, last.Timestamp.Local().Format(clockLayout), colorReset))
		sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", mood.Suggest(string(last.Mood))))
	default:
		sb.WriteString(fmt.Sprintf("  %sNo mood detected yet%s\n", colorGray, colorReset))
	}

	if sd.Dominant == nil {
		sb.WriteString(fmt.Sprintf("  %sNo mood data available%s\n", colorGray, colorReset))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("  Dominant:   %s%s %d%%%s\n", colorCyan, sd.Dominant.Mood, sd.Dominant.Percentage, colorReset))
	if sd.Secondary != nil {
		sb.WriteString(fmt.Sprintf("  Secondary:  %s %d%%\n", sd.Secondary.Mood, sd.Secondary.Percentage))
	}
	sb.WriteString(fmt.Sprintf("  %sBased on %d mood measurements%s\n", colorGray, sd.Measurements, colorReset))
	return sb.String()
}

// formatHistory renders observations, newest first.
func formatHistory(obs []mood.Observation) string {
	if len(obs) == 0 {
		return fmt.Sprintf("%sno history yet%s\n", colorGray, colorReset)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d recent moods%s\n", colorBold, len(obs), colorReset))
	for i := len(obs) - 1; i >= 0; i-- {
		o := obs[i]
		sb.WriteString(fmt.Sprintf("  %s%s%s  %s %s\n",
			colorGray, o.Timestamp.Local().Format(clockLayout), colorReset, mood.Emoji(string(o.Mood)), o.Mood))
	}
	return sb.String()
}

// formatTrends renders one line per day with a colored count per mood.
//
//	2025-03-10  happy 6  sad 2
func formatTrends(t trend.Table, window time.Duration) string {
	days := t.Days()
	if len(days) == 0 {
		return fmt.Sprintf("%sno moods in the last %s%s\n", colorGray, formatWindow(window), colorReset)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ mood trends%s │ last %s │ %d observations\n",
		colorBold, colorReset, formatWindow(window), t.Total()))
	for _, day := range days {
		sb.WriteString(fmt.Sprintf("  %s%s%s ", colorCyan, day, colorReset))
		for _, m := range mood.Labels() {
			n := t[day][m]
			if n == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(" %s%s %d%s", intensityColor(trend.Intensity(n)), m, n, colorReset))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func intensityColor(l trend.Level) string {
	switch l {
	case trend.LevelHigh:
		return colorRed
	case trend.LevelMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

func formatWindow(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// formatJournal renders entries, oldest first.
func formatJournal(entries []journal.Entry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("%sjournal is empty%s\n", colorGray, colorReset)
	}
	var sb strings.Builder
	for _, e := range entries {
		tag := fmt.Sprintf("%s—%s", colorGray, colorReset)
		if e.Mood != nil {
			tag = fmt.Sprintf("%s %s", mood.Emoji(string(*e.Mood)), *e.Mood)
		}
		sb.WriteString(fmt.Sprintf("%s%s%s  %s\n", colorGray, e.Timestamp.Local().Format(clockLayout), colorReset, tag))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Text))
	}
	return sb.String()
}

// formatExercise renders numbered steps.
func formatExercise(ex mood.Exercise) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s%s\n", colorBold, ex.Title, colorReset))
	for i, step := range ex.Steps {
		sb.WriteString(fmt.Sprintf("  %s%d.%s %s\n", colorMagenta, i+1, colorReset, step))
	}
	return sb.String()
}

// formatLoopStats summarizes a finished run.
func formatLoopStats(s app.LoopStats, uptime time.Duration) string {
	latency := "n/a"
	if s.LatencyP50 > 0 {
		latency = s.LatencyP50.Round(time.Millisecond).String()
	}
	return fmt.Sprintf("%s⚡ %d updates%s │ %d frames │ %d no face │ %d skipped │ %d errors │ p50 %s │ %s",
		colorBold, s.Cycles, colorReset, s.Detections, s.NoFace, s.Skipped, s.Errors, latency, uptime.Round(time.Second))
}
