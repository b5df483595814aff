// Package memory provides in-memory store implementations for tests and
// offline pipeline runs.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

// TrendStore is an in-memory implementation of storage.TrendStore.
type TrendStore struct {
	mu   sync.RWMutex
	rows []domain.FeaturedRow
}

// NewTrendStore creates a new in-memory trend store.
func NewTrendStore() *TrendStore {
	return &TrendStore{}
}

// ReplaceAll atomically replaces the stored table with rows.
func (s *TrendStore) ReplaceAll(_ context.Context, rows []domain.FeaturedRow) error {
	for _, r := range rows {
		if r.Ticker == "" {
			return storage.ErrInvalidInput
		}
		if math.IsNaN(r.Close) || math.IsNaN(r.MA50) || math.IsNaN(r.Volatility) {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make([]domain.FeaturedRow, len(rows))
	copy(s.rows, rows)
	return nil
}

// GetByTicker retrieves rows for one ticker, ordered by date ASC.
func (s *TrendStore) GetByTicker(_ context.Context, ticker string) ([]domain.FeaturedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.FeaturedRow
	for _, r := range s.rows {
		if r.Ticker == ticker {
			result = append(result, r)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// GetAll retrieves all rows, ordered by (ticker, date) ASC.
func (s *TrendStore) GetAll(_ context.Context) ([]domain.FeaturedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.FeaturedRow, len(s.rows))
	copy(result, s.rows)

	sort.Slice(result, func(i, j int) bool {
		if result[i].Ticker != result[j].Ticker {
			return result[i].Ticker < result[j].Ticker
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ storage.TrendStore = (*TrendStore)(nil)
