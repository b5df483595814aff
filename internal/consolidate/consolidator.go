// Package consolidate merges per-ticker processing results into one table.
package consolidate

import (
	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/processing"
)

// Consolidate unions the row sets of all per-ticker results and collects
// skip events for reporting. Results may arrive in any order; the content of
// the returned table is invariant under permutation of the input, since each
// row already carries its ticker identity.
func Consolidate(results []*processing.Result) (*domain.ConsolidatedTable, *domain.SkipLog) {
	table := domain.NewConsolidatedTable()
	skips := domain.NewSkipLog()

	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Skip != nil {
			skips.Add(*r.Skip)
			continue
		}
		table.Append(r.Rows...)
	}

	return table, skips
}
