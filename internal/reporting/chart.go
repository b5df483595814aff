package reporting

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"equity-trend-etl/internal/domain"
)

// RenderChart plots actual Close against MA50 for one ticker and saves a PNG
// named <ticker>_analysis.png in the output directory. Returns the written
// path, or ErrNoRowsForTicker when the table holds no rows for the ticker.
func (g *Generator) RenderChart(table *domain.ConsolidatedTable, ticker string) (string, error) {
	rows := table.ByTicker(ticker)
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoRowsForTicker, ticker)
	}

	if err := g.ensureOutputDir(); err != nil {
		return "", err
	}

	closes := make(plotter.XYs, len(rows))
	trend := make(plotter.XYs, len(rows))
	for i, r := range rows {
		x := float64(r.Date.Unix())
		closes[i] = plotter.XY{X: x, Y: r.Close}
		trend[i] = plotter.XY{X: x, Y: r.MA50}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Technical Analysis: %s (Price vs Trend)", ticker)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	closeLine, err := plotter.NewLine(closes)
	if err != nil {
		return "", fmt.Errorf("build close line: %w", err)
	}
	closeLine.Color = color.RGBA{B: 255, A: 128}

	trendLine, err := plotter.NewLine(trend)
	if err != nil {
		return "", fmt.Errorf("build trend line: %w", err)
	}
	trendLine.Color = color.RGBA{R: 255, A: 255}
	trendLine.Width = vg.Points(2)

	p.Add(closeLine, trendLine)
	p.Legend.Add("Actual Price", closeLine)
	p.Legend.Add("50-Day Trend", trendLine)
	p.Legend.Top = true

	path := filepath.Join(g.outputDir, fmt.Sprintf("%s_analysis.png", ticker))
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}

	return path, nil
}
