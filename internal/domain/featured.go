package domain

import (
	"sort"
	"time"
)

// FeaturedRow is one trading date with derived trend and volatility signals.
// Corresponds to one row of the stock_trends table. Immutable once emitted by
// the feature engine; no field is ever NaN.
type FeaturedRow struct {
	Ticker     string
	Date       time.Time
	Close      float64
	MA50       float64 // trailing 50-observation mean of Close
	Volatility float64 // trailing 50-observation sample standard deviation of Close
}

// ConsolidatedTable is the union of featured rows across all successfully
// processed tickers. Row enumeration order carries no meaning; Sorted provides
// a deterministic order for export and persistence.
type ConsolidatedTable struct {
	rows []FeaturedRow
}

// NewConsolidatedTable creates an empty table.
func NewConsolidatedTable() *ConsolidatedTable {
	return &ConsolidatedTable{}
}

// Append adds rows to the table.
func (t *ConsolidatedTable) Append(rows ...FeaturedRow) {
	t.rows = append(t.rows, rows...)
}

// Rows returns all rows in unspecified order.
func (t *ConsolidatedTable) Rows() []FeaturedRow {
	rows := make([]FeaturedRow, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Sorted returns all rows ordered by (ticker ASC, date ASC).
func (t *ConsolidatedTable) Sorted() []FeaturedRow {
	rows := t.Rows()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// ByTicker returns the rows for one ticker ordered by date ASC.
func (t *ConsolidatedTable) ByTicker(ticker string) []FeaturedRow {
	var rows []FeaturedRow
	for _, r := range t.rows {
		if r.Ticker == ticker {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// Len returns the number of rows.
func (t *ConsolidatedTable) Len() int {
	return len(t.rows)
}

// Empty reports whether the table holds no rows.
func (t *ConsolidatedTable) Empty() bool {
	return t == nil || len(t.rows) == 0
}
