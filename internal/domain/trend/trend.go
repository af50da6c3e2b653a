// Package trend buckets recent observations into per-day, per-mood counts.
package trend

import (
	"sort"
	"time"

	"github.com/corey/moodlens/internal/domain/mood"
)

// DefaultWindow is the trailing window covered by a trend table.
const DefaultWindow = 7 * 24 * time.Hour

// DayLayout formats a bucket key.
const DayLayout = "2006-01-02"

// Table maps a local calendar day to per-mood counts. Days without
// observations are absent.
type Table map[string]map[mood.Label]int

// Bucket groups observations whose timestamp lies in [now-window, now].
// Keys are calendar dates in loc (nil means time.Local). The table is rebuilt
// from scratch on every call.
//
// The source is the bounded history buffer, so the table never reflects more
// observations than the buffer holds, however wide the window.
func Bucket(obs []mood.Observation, now time.Time, window time.Duration, loc *time.Location) Table {
	if loc == nil {
		loc = time.Local
	}
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window)

	table := make(Table)
	for _, o := range obs {
		if o.Timestamp.Before(cutoff) || o.Timestamp.After(now) {
			continue
		}
		day := o.Timestamp.In(loc).Format(DayLayout)
		counts, ok := table[day]
		if !ok {
			counts = make(map[mood.Label]int)
			table[day] = counts
		}
		counts[o.Mood]++
	}
	return table
}

// Days returns the table's day keys, oldest first.
func (t Table) Days() []string {
	days := make([]string, 0, len(t))
	for d := range t {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// Total returns the number of observations in the table.
func (t Table) Total() int {
	total := 0
	for _, counts := range t {
		for _, n := range counts {
			total += n
		}
	}
	return total
}

// Level is a display tier for one day's count of one mood.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Intensity classifies a count: more than 5 is high, more than 3 medium.
func Intensity(count int) Level {
	switch {
	case count > 5:
		return LevelHigh
	case count > 3:
		return LevelMedium
	default:
		return LevelLow
	}
}
