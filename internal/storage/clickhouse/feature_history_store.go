package clickhouse

import (
	"context"
	"fmt"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

// FeatureHistoryStore implements storage.FeatureHistoryStore using ClickHouse.
// Rows accumulate across runs in the feature_history table, one batch per
// run id.
type FeatureHistoryStore struct {
	conn *Conn
}

// NewFeatureHistoryStore creates a new FeatureHistoryStore.
func NewFeatureHistoryStore(conn *Conn) *FeatureHistoryStore {
	return &FeatureHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureHistoryStore = (*FeatureHistoryStore)(nil)

// InsertRun appends all rows of one run. MergeTree does not enforce
// uniqueness at insert time, so the run id is checked explicitly first.
func (s *FeatureHistoryStore) InsertRun(ctx context.Context, runID string, rows []domain.FeaturedRow) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.runExists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check run exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO feature_history (run_id, ticker, date, close, ma50, volatility)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		if err := batch.Append(runID, r.Ticker, r.Date, r.Close, r.MA50, r.Volatility); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves the rows recorded for a run, ordered by (ticker, date)
// ASC. Returns ErrNotFound for an unknown run id.
func (s *FeatureHistoryStore) GetByRunID(ctx context.Context, runID string) ([]domain.FeaturedRow, error) {
	exists, err := s.runExists(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("check run exists: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	query := `
		SELECT ticker, date, close, ma50, volatility
		FROM feature_history
		WHERE run_id = ?
		ORDER BY ticker ASC, date ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	var result []domain.FeaturedRow
	for rows.Next() {
		var r domain.FeaturedRow
		if err := rows.Scan(&r.Ticker, &r.Date, &r.Close, &r.MA50, &r.Volatility); err != nil {
			return nil, fmt.Errorf("scan feature history row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature history rows: %w", err)
	}

	return result, nil
}

// runExists checks whether any rows were recorded for the run id.
// An empty run is recorded as zero rows and reported as absent, which is
// acceptable since the orchestrator never persists an empty consolidation.
func (s *FeatureHistoryStore) runExists(ctx context.Context, runID string) (bool, error) {
	query := `SELECT count(*) FROM feature_history WHERE run_id = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
