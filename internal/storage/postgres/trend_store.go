package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

// TrendStore implements storage.TrendStore using PostgreSQL.
// The stock_trends table holds exactly one pipeline run's output.
type TrendStore struct {
	pool *Pool
}

// NewTrendStore creates a new TrendStore.
func NewTrendStore(pool *Pool) *TrendStore {
	return &TrendStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TrendStore = (*TrendStore)(nil)

// ReplaceAll replaces the stored table with rows inside one transaction, so
// readers observe either the previous run's table or the new one, never a mix.
func (s *TrendStore) ReplaceAll(ctx context.Context, rows []domain.FeaturedRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE stock_trends`); err != nil {
		return fmt.Errorf("truncate stock_trends: %w", err)
	}

	query := `
		INSERT INTO stock_trends (ticker, date, close, ma50, volatility)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, r := range rows {
		if r.Ticker == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query, r.Ticker, r.Date, r.Close, r.MA50, r.Volatility)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trend row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByTicker retrieves rows for one ticker, ordered by date ASC.
func (s *TrendStore) GetByTicker(ctx context.Context, ticker string) ([]domain.FeaturedRow, error) {
	query := `
		SELECT ticker, date, close, ma50, volatility
		FROM stock_trends
		WHERE ticker = $1
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get trends by ticker: %w", err)
	}
	defer rows.Close()

	return scanTrendRows(rows)
}

// GetAll retrieves all rows, ordered by (ticker, date) ASC.
func (s *TrendStore) GetAll(ctx context.Context) ([]domain.FeaturedRow, error) {
	query := `
		SELECT ticker, date, close, ma50, volatility
		FROM stock_trends
		ORDER BY ticker ASC, date ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trends: %w", err)
	}
	defer rows.Close()

	return scanTrendRows(rows)
}

// scanTrendRows scans multiple rows.
func scanTrendRows(rows pgx.Rows) ([]domain.FeaturedRow, error) {
	var result []domain.FeaturedRow

	for rows.Next() {
		var r domain.FeaturedRow
		if err := rows.Scan(&r.Ticker, &r.Date, &r.Close, &r.MA50, &r.Volatility); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	return result, nil
}
