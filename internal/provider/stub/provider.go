// Package stub provides a canned market-data provider for tests and offline
// pipeline runs.
package stub

import (
	"context"
	"time"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/provider"
)

// Provider implements provider.Provider from in-memory data.
type Provider struct {
	// PerTicker holds the observations returned per ticker. Tickers missing
	// from the map are absent from the fetched table.
	PerTicker map[string][]domain.Observation

	// Err, when set, is returned by FetchDaily to simulate extraction failure.
	Err error
}

// Compile-time interface check.
var _ provider.Provider = (*Provider)(nil)

// NewProvider creates an empty stub provider.
func NewProvider() *Provider {
	return &Provider{PerTicker: make(map[string][]domain.Observation)}
}

// FetchDaily returns the canned table restricted to the requested tickers,
// each truncated to the lookback.
func (p *Provider) FetchDaily(_ context.Context, tickers []string, lookbackDays int) (*domain.RawSeriesTable, error) {
	if p.Err != nil {
		return nil, p.Err
	}

	perTicker := make(map[string][]domain.Observation, len(tickers))
	for _, ticker := range tickers {
		obs, ok := p.PerTicker[ticker]
		if !ok {
			continue
		}
		if lookbackDays > 0 && len(obs) > lookbackDays {
			obs = obs[len(obs)-lookbackDays:]
		}
		perTicker[ticker] = obs
	}

	return domain.BuildRawSeriesTable(perTicker), nil
}

// AddRamp seeds a ticker with n gap-free daily closes forming a linear ramp
// start, start+step, start+2*step, ... beginning at from. Weekends are not
// skipped; the stub calendar is every consecutive day.
func (p *Provider) AddRamp(ticker string, from time.Time, n int, start, step float64) {
	obs := make([]domain.Observation, n)
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		obs[i] = domain.Observation{
			Date:   from.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	p.PerTicker[ticker] = obs
}
