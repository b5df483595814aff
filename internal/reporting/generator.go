// Package reporting renders artifacts from a consolidated trend table.
package reporting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"equity-trend-etl/internal/domain"
)

// ErrNoRowsForTicker is returned when the requested chart ticker has no rows
// in the table. Callers log a notice and continue; an uncovered ticker is not
// a failure of the run.
var ErrNoRowsForTicker = errors.New("no rows for ticker")

// Generator writes reporting artifacts into an output directory.
type Generator struct {
	outputDir string
	now       func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a generator writing into outputDir.
// The directory is created on first write.
func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// ensureOutputDir creates the output directory if needed.
func (g *Generator) ensureOutputDir() error {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// WriteCSV exports the full table, sorted by (ticker, date), to
// stock_trends.csv in the output directory. Returns the written path.
func (g *Generator) WriteCSV(table *domain.ConsolidatedTable) (string, error) {
	if err := g.ensureOutputDir(); err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, "stock_trends.csv")
	if err := os.WriteFile(path, []byte(RenderCSV(table.Sorted())), 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}
