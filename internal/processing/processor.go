// Package processing applies cleaning and feature derivation to one ticker.
package processing

import (
	"context"

	"equity-trend-etl/internal/cleaning"
	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/features"
)

// Result is the outcome of processing one ticker: either a row set, or a skip
// event explaining why the ticker contributed nothing. Never both.
type Result struct {
	Ticker string
	Rows   []domain.FeaturedRow
	Skip   *domain.SkipEvent
}

// Processor runs the cleaner and feature engine for a single ticker.
// It holds no mutable state, so tickers can be processed in any order or in
// parallel without coordination.
type Processor struct {
	cleaner *cleaning.Cleaner
	engine  *features.Engine
}

// NewProcessor creates a processor from a cleaner and a feature engine.
func NewProcessor(cleaner *cleaning.Cleaner, engine *features.Engine) *Processor {
	return &Processor{cleaner: cleaner, engine: engine}
}

// Process extracts one ticker's series from the raw table and derives its
// featured rows. A ticker absent from the table yields a skip event with
// reason "no data found". A ticker whose cleaned history is shorter than the
// feature window yields a skip event with reason "insufficient history" —
// the data existed, the observation count was just too low, so this is
// diagnostic rather than an error. The raw table is never mutated.
func (p *Processor) Process(ctx context.Context, ticker string, raw *domain.RawSeriesTable) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, ok := raw.Series(ticker)
	if !ok {
		return &Result{
			Ticker: ticker,
			Skip:   &domain.SkipEvent{Ticker: ticker, Reason: domain.SkipNoData},
		}, nil
	}

	cleaned := p.cleaner.Clean(series)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := p.engine.Compute(cleaned)
	if len(rows) == 0 {
		return &Result{
			Ticker: ticker,
			Skip:   &domain.SkipEvent{Ticker: ticker, Reason: domain.SkipInsufficientHistory},
		}, nil
	}

	return &Result{Ticker: ticker, Rows: rows}, nil
}
