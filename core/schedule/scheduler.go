// Package schedule resolves latitude-band competition between orders: every
// 2-degree band grants a single imaging slot per pass, and orders compete on
// total score.
package schedule

import (
	"math"

	"github.com/orbitalsys/taskopt/core/model"
)

// BandRule selects how orders are matched to a band's lower edge L.
type BandRule string

const (
	// BandExclusive covers L < latitude < L+1. Normative behavior.
	BandExclusive BandRule = "exclusive"
	// BandEdges covers latitude == L or latitude == L+1. Kept for parity with
	// earlier deck variants; exact float comparison, so only meaningful for
	// decks with integral latitudes.
	BandEdges BandRule = "edges"
)

// Valid reports whether r names a known band rule.
func (r BandRule) Valid() bool { return r == BandExclusive || r == BandEdges }

// Config holds scheduling parameters loaded from configuration.
type Config struct {
	BandRule BandRule `json:"band_rule"`
}

// SetDefaults fills in the normative band rule.
func (c *Config) SetDefaults() {
	if c.BandRule == "" {
		c.BandRule = BandExclusive
	}
}

// Scheduler marks the winning order of every latitude band. Bands start at
// the whole degree below the deck's minimum latitude and advance by 2
// degrees until they pass the maximum latitude.
type Scheduler struct {
	rule BandRule
}

// New returns a scheduler using the given band rule. An empty rule falls back
// to the exclusive-range form.
func New(rule BandRule) *Scheduler {
	if rule == "" {
		rule = BandExclusive
	}
	return &Scheduler{rule: rule}
}

func (s *Scheduler) inBand(latitude, lower float64) bool {
	if s.rule == BandEdges {
		return latitude == lower || latitude == lower+1
	}
	return latitude > lower && latitude < lower+1
}

// Schedule sets the Scheduled flag on the order with the maximum TotalScore in
// each non-empty band and returns the winning order indexes. Ties resolve to
// the first order in table order; callers may rely on that only for
// reproducibility. Scheduled flags are not reset here: the caller clears them
// per scenario.
func (s *Scheduler) Schedule(t *model.Table) []int {
	var winners []int
	for lower := math.Floor(t.MinLatitude); lower < t.MaxLatitude+1; lower += 2 {
		best := -1
		for i, o := range t.Orders {
			if !s.inBand(o.Latitude, lower) {
				continue
			}
			// NaN scores come from failed weather lookups; they never win.
			if math.IsNaN(t.TotalScore[i]) {
				continue
			}
			if best == -1 || t.TotalScore[i] > t.TotalScore[best] {
				best = i
			}
		}
		if best >= 0 {
			t.Scheduled[best] = true
			winners = append(winners, best)
		}
	}
	return winners
}
