// Package main re-renders reporting artifacts from the persisted trend table
// without re-running extraction or transformation.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"equity-trend-etl/internal/config"
	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/reporting"
	"equity-trend-etl/internal/storage/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	ticker := flag.String("ticker", "", "Ticker to chart (defaults to the configured chart ticker)")
	outputDir := flag.String("output-dir", "", "Override the reports directory")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("config error")
		return 1
	}
	if *outputDir != "" {
		cfg.ReportDir = *outputDir
	}
	if *ticker == "" {
		*ticker = cfg.ChartTicker
	}
	if cfg.PostgresDSN == "" {
		log.Error().Msg("ETL_POSTGRES_DSN is required")
		return 1
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error().Err(err).Msg("postgres connect failed")
		return 1
	}
	defer pool.Close()

	rows, err := postgres.NewTrendStore(pool).GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load trend table failed")
		return 1
	}

	table := domain.NewConsolidatedTable()
	table.Append(rows...)
	if table.Empty() {
		log.Warn().Msg("trend table is empty, nothing to report")
		return 0
	}

	gen := reporting.NewGenerator(cfg.ReportDir)

	if path, err := gen.WriteCSV(table); err != nil {
		log.Error().Err(err).Msg("csv export failed")
		return 1
	} else {
		log.Info().Str("path", path).Msg("csv exported")
	}

	path, err := gen.RenderChart(table, *ticker)
	switch {
	case errors.Is(err, reporting.ErrNoRowsForTicker):
		log.Warn().Str("ticker", *ticker).Msg("chart skipped: ticker has no rows")
	case err != nil:
		log.Error().Err(err).Msg("chart render failed")
		return 1
	default:
		log.Info().Str("path", path).Msg("chart rendered")
	}

	return 0
}
