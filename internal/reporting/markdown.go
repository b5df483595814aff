package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"equity-trend-etl/internal/domain"
)

// WriteSummary writes RUN_SUMMARY.md describing one pipeline run: row counts
// per ticker and the tickers skipped with their reasons. Returns the written
// path.
func (g *Generator) WriteSummary(table *domain.ConsolidatedTable, skips *domain.SkipLog) (string, error) {
	if err := g.ensureOutputDir(); err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, "RUN_SUMMARY.md")
	if err := os.WriteFile(path, []byte(g.renderSummary(table, skips)), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

func (g *Generator) renderSummary(table *domain.ConsolidatedTable, skips *domain.SkipLog) string {
	var sb strings.Builder

	sb.WriteString("# Stock Trend Pipeline Run\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", g.now().Format("2006-01-02 15:04:05 UTC")))
	sb.WriteString(fmt.Sprintf("Total rows: %d\n\n", table.Len()))

	counts := make(map[string]int)
	for _, r := range table.Rows() {
		counts[r.Ticker]++
	}
	tickers := make([]string, 0, len(counts))
	for t := range counts {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	sb.WriteString("## Rows per ticker\n\n")
	sb.WriteString("| Ticker | Rows |\n|---|---|\n")
	for _, t := range tickers {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", t, counts[t]))
	}

	sb.WriteString(fmt.Sprintf("\n## Skipped tickers (%d)\n\n", skips.Count()))
	if skips.Count() == 0 {
		sb.WriteString("None.\n")
	} else {
		sb.WriteString("| Ticker | Reason |\n|---|---|\n")
		for _, e := range skips.Events() {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", e.Ticker, e.Reason))
		}
	}

	return sb.String()
}
