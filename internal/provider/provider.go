// Package provider defines the market-data extraction boundary.
package provider

import (
	"context"

	"equity-trend-etl/internal/domain"
)

// Provider retrieves historical daily series for a ticker universe.
//
// A returned error means the extraction failed as a whole (network, auth,
// throttling) and the pipeline halts before transformation. A ticker the
// provider does not cover is simply omitted from the table, never an error.
type Provider interface {
	// FetchDaily retrieves up to lookbackDays daily observations per ticker,
	// merged onto the union trading calendar.
	FetchDaily(ctx context.Context, tickers []string, lookbackDays int) (*domain.RawSeriesTable, error)
}
