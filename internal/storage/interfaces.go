package storage

import (
	"context"

	"equity-trend-etl/internal/domain"
)

// TrendStore persists the consolidated trend table.
// Each pipeline run replaces the prior contents wholesale; the store never
// accumulates rows across runs.
type TrendStore interface {
	// ReplaceAll atomically replaces the stored table with rows, from the
	// caller's point of view. An empty slice clears the table.
	ReplaceAll(ctx context.Context, rows []domain.FeaturedRow) error

	// GetByTicker retrieves rows for one ticker, ordered by date ASC.
	GetByTicker(ctx context.Context, ticker string) ([]domain.FeaturedRow, error)

	// GetAll retrieves all rows, ordered by (ticker, date) ASC.
	GetAll(ctx context.Context) ([]domain.FeaturedRow, error)
}

// FeatureHistoryStore keeps an append-only per-run copy of the consolidated
// table for analytical queries across runs.
type FeatureHistoryStore interface {
	// InsertRun appends all rows of one run. Returns ErrDuplicateKey if the
	// run id was already recorded.
	InsertRun(ctx context.Context, runID string, rows []domain.FeaturedRow) error

	// GetByRunID retrieves the rows recorded for a run, ordered by
	// (ticker, date) ASC. Returns ErrNotFound for an unknown run id.
	GetByRunID(ctx context.Context, runID string) ([]domain.FeaturedRow, error)
}
