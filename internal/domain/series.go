package domain

import (
	"math"
	"sort"
	"time"
)

// Field identifies one component of a daily price series.
type Field string

// Price series fields reported by the market-data provider.
const (
	FieldOpen   Field = "Open"
	FieldHigh   Field = "High"
	FieldLow    Field = "Low"
	FieldClose  Field = "Close"
	FieldVolume Field = "Volume"
)

// Observation is one trading date for a single ticker.
// NaN marks a value the provider did not report for that date.
type Observation struct {
	Date   time.Time // trading date, normalized to UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TickerSeries is a date-ordered series of observations for one ticker.
// Dates are unique and strictly increasing.
type TickerSeries struct {
	Ticker       string
	Observations []Observation
}

// RawSeriesTable holds the provider's response for a whole ticker universe,
// aligned on the union trading calendar of every ticker in the request.
// A ticker that traded on a subset of the calendar carries NaN cells on the
// other tickers' trading dates. Read-only after construction.
type RawSeriesTable struct {
	dates  []time.Time
	series map[string][]Observation // per ticker, aligned to dates
}

// BuildRawSeriesTable merges per-ticker daily observations onto the union
// trading calendar. Tickers mapped to an empty slice are treated as absent,
// matching a provider that omitted them from its response.
func BuildRawSeriesTable(perTicker map[string][]Observation) *RawSeriesTable {
	// Union calendar across all tickers
	dateSet := make(map[time.Time]struct{})
	for _, obs := range perTicker {
		for _, o := range obs {
			dateSet[o.Date] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	dateIndex := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		dateIndex[d] = i
	}

	table := &RawSeriesTable{
		dates:  dates,
		series: make(map[string][]Observation, len(perTicker)),
	}

	for ticker, obs := range perTicker {
		if len(obs) == 0 {
			continue
		}
		aligned := make([]Observation, len(dates))
		for i, d := range dates {
			aligned[i] = Observation{
				Date:   d,
				Open:   math.NaN(),
				High:   math.NaN(),
				Low:    math.NaN(),
				Close:  math.NaN(),
				Volume: math.NaN(),
			}
		}
		for _, o := range obs {
			aligned[dateIndex[o.Date]] = o
		}
		table.series[ticker] = aligned
	}

	return table
}

// Series projects the table onto one ticker. The second return value is false
// when the provider returned no data for the ticker, so callers distinguish
// an absent ticker from one with sparse data without error-based control flow.
func (t *RawSeriesTable) Series(ticker string) (TickerSeries, bool) {
	aligned, ok := t.series[ticker]
	if !ok {
		return TickerSeries{}, false
	}

	obs := make([]Observation, len(aligned))
	copy(obs, aligned)
	return TickerSeries{Ticker: ticker, Observations: obs}, true
}

// Dates returns the union trading calendar, sorted ascending.
func (t *RawSeriesTable) Dates() []time.Time {
	dates := make([]time.Time, len(t.dates))
	copy(dates, t.dates)
	return dates
}

// Tickers returns the tickers present in the table, sorted.
func (t *RawSeriesTable) Tickers() []string {
	tickers := make([]string, 0, len(t.series))
	for ticker := range t.series {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Empty reports whether the table holds no data at all.
func (t *RawSeriesTable) Empty() bool {
	return t == nil || len(t.series) == 0
}
