package reporting

import (
	"fmt"
	"strings"

	"equity-trend-etl/internal/domain"
)

// RenderCSV renders featured rows as a CSV string.
// Row order is preserved; pass a deterministically sorted slice for
// reproducible output.
func RenderCSV(rows []domain.FeaturedRow) string {
	var sb strings.Builder

	sb.WriteString("ticker,date,close,ma50,volatility\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f\n",
			r.Ticker,
			r.Date.Format("2006-01-02"),
			r.Close,
			r.MA50,
			r.Volatility,
		))
	}

	return sb.String()
}
