// Package config loads pipeline configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"equity-trend-etl/internal/cleaning"
)

// DefaultTickers is the stock universe analyzed when ETL_TICKERS is unset:
// a mix of US and Indian NSE listings, chosen so the two exchange calendars
// exercise the gap-filling path.
var DefaultTickers = []string{
	// US tech & finance
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "ADBE", "INTC",
	"AMD", "PYPL", "CRM", "CSCO", "PEP", "KO", "NKE", "DIS", "WMT", "V",
	"MA", "JPM", "BAC", "GS", "MS", "IBM", "ORCL", "UBER", "ABNB", "SQ",
	// Indian NSE
	"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "ICICIBANK.NS",
	"TATAMOTORS.NS", "TATASTEEL.NS", "WIPRO.NS", "SBIN.NS", "BHARTIARTL.NS",
	"ITC.NS", "LT.NS", "HCLTECH.NS", "MARUTI.NS", "SUNPHARMA.NS", "ULTRACEMCO.NS",
	"TITAN.NS", "BAJFINANCE.NS", "ASIANPAINT.NS", "POWERGRID.NS",
}

// Config holds all pipeline settings. Values are read from ETL_* environment
// variables; the ticker universe and output paths are explicit configuration
// rather than process-wide constants so tests can run synthetic universes.
type Config struct {
	Tickers      []string `envconfig:"TICKERS"`
	LookbackDays int      `envconfig:"LOOKBACK_DAYS" default:"504"` // ~2 trading years
	Window       int      `envconfig:"WINDOW" default:"50"`
	FillPolicy   string   `envconfig:"FILL_POLICY" default:"union"` // union | own

	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`

	ReportDir   string `envconfig:"REPORT_DIR" default:"reports"`
	ChartTicker string `envconfig:"CHART_TICKER" default:"AAPL"`

	Workers        int           `envconfig:"WORKERS" default:"8"`
	ExtractTimeout time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"2m"`
	TickerTimeout  time.Duration `envconfig:"TICKER_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from ETL_* environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("etl", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	if len(cfg.Tickers) == 0 {
		cfg.Tickers = DefaultTickers
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive, got %d", c.LookbackDays)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if !cleaning.FillPolicy(c.FillPolicy).Valid() {
		return fmt.Errorf("unknown fill policy %q", c.FillPolicy)
	}
	return nil
}
