// Package features derives trend and volatility signals from cleaned series.
package features

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"equity-trend-etl/internal/domain"
)

// DefaultWindow is the trailing observation count for both statistics.
const DefaultWindow = 50

// Engine computes trailing-window statistics over the Close field.
//
// For output index i the window is Close[i-w+1..i], advanced one observation
// per output point; rows with fewer than w preceding observations are
// excluded rather than emitted with undefined values. Volatility is the
// sample standard deviation (N-1 denominator), matching MA's window exactly.
type Engine struct {
	window int
}

// NewEngine creates an engine with the given window size.
// A non-positive window falls back to DefaultWindow.
func NewEngine(window int) *Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Engine{window: window}
}

// Window returns the configured window size.
func (e *Engine) Window() int {
	return e.window
}

// Compute derives featured rows from a cleaned series. A series shorter than
// the window yields zero rows; exactly window observations yield exactly one.
func (e *Engine) Compute(s domain.TickerSeries) []domain.FeaturedRow {
	n := len(s.Observations)
	if n < e.window {
		return nil
	}

	closes := make([]float64, n)
	for i, o := range s.Observations {
		closes[i] = o.Close
	}

	rows := make([]domain.FeaturedRow, 0, n-e.window+1)
	for i := e.window - 1; i < n; i++ {
		win := closes[i-e.window+1 : i+1]
		if floats.HasNaN(win) {
			// Undefined window; the row carries no trend signal.
			continue
		}
		rows = append(rows, domain.FeaturedRow{
			Ticker:     s.Ticker,
			Date:       s.Observations[i].Date,
			Close:      closes[i],
			MA50:       stat.Mean(win, nil),
			Volatility: stat.StdDev(win, nil),
		})
	}

	return rows
}
