// Package cleaning fills calendar gaps in per-ticker price series.
//
// Tickers trade on different exchange calendars, so a missing value on a date
// where only other tickers traded is a legitimate holiday, not a data defect.
// The cleaner propagates the last known value forward through such gaps; it
// never interpolates and never back-fills before the first real observation.
package cleaning

import (
	"math"

	"equity-trend-etl/internal/domain"
)

// FillPolicy selects which calendar a ticker's gaps are filled against.
type FillPolicy string

const (
	// FillUnionCalendar fills a ticker's gap on any union-calendar date using
	// its previous value, even on dates where only other tickers traded.
	// Every cleaned series is then aligned to the full union calendar.
	FillUnionCalendar FillPolicy = "union"

	// FillOwnCalendar first drops dates on which the ticker has no
	// observation at all, so foreign exchange holidays produce no synthetic
	// rows, then fills the remaining per-field gaps.
	FillOwnCalendar FillPolicy = "own"
)

// Valid reports whether p is a known policy.
func (p FillPolicy) Valid() bool {
	return p == FillUnionCalendar || p == FillOwnCalendar
}

// Cleaner forward-fills missing observations in a single ticker's series.
type Cleaner struct {
	policy FillPolicy
}

// NewCleaner creates a cleaner with the given fill policy.
// An unknown policy falls back to FillUnionCalendar.
func NewCleaner(policy FillPolicy) *Cleaner {
	if !policy.Valid() {
		policy = FillUnionCalendar
	}
	return &Cleaner{policy: policy}
}

// Policy returns the configured fill policy.
func (c *Cleaner) Policy() FillPolicy {
	return c.policy
}

// Clean returns a copy of s with each field's last known value propagated
// forward through gaps. Rows before the first observed Close remain undefined
// and are dropped. Already-clean input comes back unchanged.
func (c *Cleaner) Clean(s domain.TickerSeries) domain.TickerSeries {
	obs := make([]domain.Observation, 0, len(s.Observations))
	for _, o := range s.Observations {
		if c.policy == FillOwnCalendar && allMissing(o) {
			continue
		}
		obs = append(obs, o)
	}

	// Trim leading rows with no Close observation; back-filling them would
	// invent trend where none existed.
	first := -1
	for i, o := range obs {
		if !math.IsNaN(o.Close) {
			first = i
			break
		}
	}
	if first < 0 {
		return domain.TickerSeries{Ticker: s.Ticker}
	}
	obs = obs[first:]

	// Forward-fill each field independently from its own last observation.
	prev := obs[0]
	for i := range obs {
		obs[i].Open = fill(obs[i].Open, prev.Open)
		obs[i].High = fill(obs[i].High, prev.High)
		obs[i].Low = fill(obs[i].Low, prev.Low)
		obs[i].Close = fill(obs[i].Close, prev.Close)
		obs[i].Volume = fill(obs[i].Volume, prev.Volume)
		prev = obs[i]
	}

	return domain.TickerSeries{Ticker: s.Ticker, Observations: obs}
}

// fill returns v, or last when v is missing.
func fill(v, last float64) float64 {
	if math.IsNaN(v) {
		return last
	}
	return v
}

// allMissing reports whether the observation carries no value in any field.
func allMissing(o domain.Observation) bool {
	return math.IsNaN(o.Open) && math.IsNaN(o.High) && math.IsNaN(o.Low) &&
		math.IsNaN(o.Close) && math.IsNaN(o.Volume)
}
