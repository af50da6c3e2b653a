// Package stats aggregates cumulative per-mood counts and derives the
// dominant and secondary moods from them.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/corey/moodlens/internal/domain/mood"
)

// Counts is an unbounded per-mood counter. It remembers the order in which
// moods were first observed; that order breaks ties in DominantAndSecondary
// and is kept through JSON encoding.
// Not thread-safe; the owning tracker serializes access.
type Counts struct {
	order []mood.Label
	n     map[mood.Label]int
}

// New returns empty counts.
func New() *Counts {
	return &Counts{n: make(map[mood.Label]int)}
}

// Increment adds one observation of m.
func (c *Counts) Increment(m mood.Label) {
	c.add(m, 1)
}

func (c *Counts) add(m mood.Label, k int) {
	if c.n == nil {
		c.n = make(map[mood.Label]int)
	}
	if _, seen := c.n[m]; !seen {
		c.order = append(c.order, m)
	}
	c.n[m] += k
}

// Get returns the count for m.
func (c *Counts) Get(m mood.Label) int {
	return c.n[m]
}

// Total returns the sum of all counts.
func (c *Counts) Total() int {
	total := 0
	for _, v := range c.n {
		total += v
	}
	return total
}

// Empty reports whether nothing has been counted.
func (c *Counts) Empty() bool {
	return len(c.order) == 0
}

// Entry is one mood with its count.
type Entry struct {
	Mood  mood.Label
	Count int
}

// Entries returns the counts in first-observed order.
func (c *Counts) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, m := range c.order {
		out = append(out, Entry{Mood: m, Count: c.n[m]})
	}
	return out
}

// Clone returns an independent copy.
func (c *Counts) Clone() *Counts {
	out := New()
	for _, e := range c.Entries() {
		out.add(e.Mood, e.Count)
	}
	return out
}

// Share is a mood's rounded percentage of all observations.
type Share struct {
	Mood       mood.Label `json:"mood"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// Analysis is the dominant/secondary breakdown. Secondary is nil when only
// one mood has been observed.
type Analysis struct {
	Dominant  Share  `json:"dominant"`
	Secondary *Share `json:"secondary"`
	Total     int    `json:"total"`
}

// DominantAndSecondary ranks moods by rounded percentage, highest first.
// Equal percentages keep first-observed order. Percentages are rounded
// independently and need not sum to 100. ok is false when there is no data.
func (c *Counts) DominantAndSecondary() (Analysis, bool) {
	shares := c.Shares()
	if len(shares) == 0 {
		return Analysis{}, false
	}
	a := Analysis{Dominant: shares[0], Total: c.Total()}
	if len(shares) > 1 {
		second := shares[1]
		a.Secondary = &second
	}
	return a, true
}

// Shares returns every mood with a positive count, ranked as in
// DominantAndSecondary.
func (c *Counts) Shares() []Share {
	total := c.Total()
	if total == 0 {
		return nil
	}
	shares := make([]Share, 0, len(c.order))
	for _, m := range c.order {
		n := c.n[m]
		if n <= 0 {
			continue
		}
		shares = append(shares, Share{
			Mood:       m,
			Count:      n,
			Percentage: int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})
	return shares
}

// MarshalJSON encodes the counts as a JSON object in first-observed order.
func (c *Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(m))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", c.n[m])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of non-negative integers, keeping key
// order as first-observed order. Unknown mood names are folded into
// mood.Fallback so the total is preserved.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("mood stats: expected object, got %v", tok)
	}

	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var num json.Number
		if err := dec.Decode(&num); err != nil {
			return fmt.Errorf("mood stats %q: %w", key, err)
		}
		n, err := num.Int64()
		if err != nil || n < 0 {
			return fmt.Errorf("mood stats %q: invalid count %s", key, num)
		}
		out.add(mood.Normalize(key), int(n))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = *out
	return nil
}
