package memory

import (
	"context"
	"sort"
	"sync"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

// FeatureHistoryStore is an in-memory implementation of
// storage.FeatureHistoryStore.
type FeatureHistoryStore struct {
	mu   sync.RWMutex
	runs map[string][]domain.FeaturedRow
}

// NewFeatureHistoryStore creates a new in-memory history store.
func NewFeatureHistoryStore() *FeatureHistoryStore {
	return &FeatureHistoryStore{
		runs: make(map[string][]domain.FeaturedRow),
	}
}

// InsertRun appends all rows of one run. Returns ErrDuplicateKey if the run id
// was already recorded.
func (s *FeatureHistoryStore) InsertRun(_ context.Context, runID string, rows []domain.FeaturedRow) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[runID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]domain.FeaturedRow, len(rows))
	copy(stored, rows)
	s.runs[runID] = stored
	return nil
}

// GetByRunID retrieves the rows recorded for a run, ordered by (ticker, date)
// ASC. Returns ErrNotFound for an unknown run id.
func (s *FeatureHistoryStore) GetByRunID(_ context.Context, runID string) ([]domain.FeaturedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	result := make([]domain.FeaturedRow, len(stored))
	copy(result, stored)

	sort.Slice(result, func(i, j int) bool {
		if result[i].Ticker != result[j].Ticker {
			return result[i].Ticker < result[j].Ticker
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

var _ storage.FeatureHistoryStore = (*FeatureHistoryStore)(nil)
