// Package main provides the ETL pipeline entry point.
// Executes: extraction → transform → consolidation → sinks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"equity-trend-etl/internal/cleaning"
	"equity-trend-etl/internal/config"
	"equity-trend-etl/internal/observability"
	"equity-trend-etl/internal/orchestrator"
	"equity-trend-etl/internal/provider"
	"equity-trend-etl/internal/provider/stub"
	"equity-trend-etl/internal/provider/twelvedata"
	"equity-trend-etl/internal/reporting"
	"equity-trend-etl/internal/storage"
	"equity-trend-etl/internal/storage/clickhouse"
	"equity-trend-etl/internal/storage/memory"
	"equity-trend-etl/internal/storage/migrations"
	"equity-trend-etl/internal/storage/postgres"
)

// Exit codes distinguishing the orchestrator's terminal states.
const (
	exitSuccess = 0
	exitFailure = 1
	exitNoData  = 2 // provider returned nothing, or extraction failed outright
	exitNoRows  = 3 // every ticker was skipped or filtered
)

func main() {
	os.Exit(run())
}

func run() int {
	outputDir := flag.String("output-dir", "", "Override the reports directory")
	offline := flag.Bool("offline", false, "Use the built-in fixture provider instead of the live API")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return exitFailure
	}
	if *outputDir != "" {
		cfg.ReportDir = *outputDir
	}

	log := newLogger(cfg.LogLevel, *verbose)

	// Cancel the run on shutdown signals.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("cancelling pipeline")
		cancel()
	}()

	src, err := buildProvider(*offline, cfg)
	if err != nil {
		log.Error().Err(err).Msg("provider setup failed")
		return exitFailure
	}

	trendStore, historyStore, closeStores, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("store setup failed")
		return exitFailure
	}
	defer closeStores()

	orch := orchestrator.New(orchestrator.Options{
		Provider:       src,
		TrendStore:     trendStore,
		HistoryStore:   historyStore,
		Reporter:       reporting.NewGenerator(cfg.ReportDir),
		Metrics:        observability.NewMetrics(prometheus.NewRegistry()),
		Logger:         log,
		Tickers:        cfg.Tickers,
		LookbackDays:   cfg.LookbackDays,
		Window:         cfg.Window,
		FillPolicy:     cleaning.FillPolicy(cfg.FillPolicy),
		ChartTicker:    cfg.ChartTicker,
		Workers:        cfg.Workers,
		ExtractTimeout: cfg.ExtractTimeout,
		TickerTimeout:  cfg.TickerTimeout,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		// Run fails outright only when extraction does; nothing was
		// extracted, so report that terminal state.
		return exitNoData
	}

	for _, e := range result.Errors {
		log.Warn().Str("error", e).Msg("non-fatal failure")
	}

	switch result.Status {
	case orchestrator.StatusNoData:
		return exitNoData
	case orchestrator.StatusNoRows:
		return exitNoRows
	default:
		return exitSuccess
	}
}

// newLogger builds a console zerolog logger.
func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// buildProvider selects the live API client or the offline fixture provider.
func buildProvider(offline bool, cfg *config.Config) (provider.Provider, error) {
	if offline {
		return fixtureProvider(cfg.Tickers), nil
	}

	tdCfg := twelvedata.LoadConfig()
	if tdCfg.APIKey == "" {
		return nil, errors.New("TWELVE_DATA_API_KEY is not set (use -offline for fixture data)")
	}
	return twelvedata.NewClient(tdCfg, nil), nil
}

// fixtureProvider seeds deterministic ramps for every configured ticker
// except the last, which stays absent to exercise the skip path.
func fixtureProvider(tickers []string) *stub.Provider {
	p := stub.NewProvider()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, ticker := range tickers {
		if i == len(tickers)-1 && len(tickers) > 1 {
			continue
		}
		p.AddRamp(ticker, from, 120, 100.0+float64(i), 0.1)
	}
	return p
}

// buildStores wires the configured sinks, falling back to the in-memory
// trend store when no Postgres DSN is set.
func buildStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.TrendStore, storage.FeatureHistoryStore, func(), error) {
	closers := make([]func(), 0, 2)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var trendStore storage.TrendStore
	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, closeAll, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, nil, closeAll, fmt.Errorf("postgres migrations: %w", err)
		}
		trendStore = postgres.NewTrendStore(pool)
	} else {
		log.Warn().Msg("ETL_POSTGRES_DSN not set, trend table stays in memory")
		trendStore = memory.NewTrendStore()
	}

	var historyStore storage.FeatureHistoryStore
	if cfg.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, closeAll, fmt.Errorf("clickhouse: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return nil, nil, closeAll, fmt.Errorf("clickhouse migrations: %w", err)
		}
		historyStore = clickhouse.NewFeatureHistoryStore(conn)
	}

	return trendStore, historyStore, closeAll, nil
}
