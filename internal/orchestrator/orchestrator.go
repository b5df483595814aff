// Package orchestrator sequences the ETL pipeline.
// It coordinates: extraction → per-ticker transform → consolidation → sinks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"equity-trend-etl/internal/cleaning"
	"equity-trend-etl/internal/consolidate"
	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/features"
	"equity-trend-etl/internal/observability"
	"equity-trend-etl/internal/processing"
	"equity-trend-etl/internal/provider"
	"equity-trend-etl/internal/reporting"
	"equity-trend-etl/internal/storage"
)

// Status is the terminal state of a pipeline run.
type Status string

const (
	// StatusSuccess means rows were produced and handed to the sinks.
	StatusSuccess Status = "success"

	// StatusNoData means the provider returned an empty table; downstream
	// stages never ran.
	StatusNoData Status = "no_data_extracted"

	// StatusNoRows means every ticker was skipped or filtered; persistence
	// and charting were skipped rather than writing an empty table.
	StatusNoRows Status = "no_rows_survived"
)

// Orchestrator coordinates one pipeline execution.
// The sink write and chart render are independent terminal side effects: a
// failure in one never rolls back or suppresses the other, and neither aborts
// the run.
type Orchestrator struct {
	provider     provider.Provider
	trendStore   storage.TrendStore
	historyStore storage.FeatureHistoryStore
	reporter     *reporting.Generator
	metrics      *observability.Metrics
	log          zerolog.Logger

	tickers        []string
	lookbackDays   int
	window         int
	fillPolicy     cleaning.FillPolicy
	chartTicker    string
	workers        int
	extractTimeout time.Duration
	tickerTimeout  time.Duration
}

// Options for creating an Orchestrator.
type Options struct {
	// Required collaborators
	Provider   provider.Provider
	TrendStore storage.TrendStore

	// Optional collaborators
	HistoryStore storage.FeatureHistoryStore
	Reporter     *reporting.Generator
	Metrics      *observability.Metrics
	Logger       zerolog.Logger

	// Run configuration
	Tickers        []string
	LookbackDays   int
	Window         int
	FillPolicy     cleaning.FillPolicy
	ChartTicker    string
	Workers        int
	ExtractTimeout time.Duration
	TickerTimeout  time.Duration
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		provider:       opts.Provider,
		trendStore:     opts.TrendStore,
		historyStore:   opts.HistoryStore,
		reporter:       opts.Reporter,
		metrics:        opts.Metrics,
		log:            opts.Logger,
		tickers:        opts.Tickers,
		lookbackDays:   opts.LookbackDays,
		window:         opts.Window,
		fillPolicy:     opts.FillPolicy,
		chartTicker:    opts.ChartTicker,
		workers:        workers,
		extractTimeout: opts.ExtractTimeout,
		tickerTimeout:  opts.TickerTimeout,
	}
}

// RunResult contains the outcome of one pipeline run.
type RunResult struct {
	Status  Status
	RunID   string
	Rows    int
	Table   *domain.ConsolidatedTable
	Skipped *domain.SkipLog
	Errors  []string // non-fatal failures (sinks, per-ticker timeouts)
}

// Run executes the full pipeline. It returns an error only when extraction
// fails outright; every other failure class degrades to fewer tickers
// represented or to a skipped sink, recorded in RunResult.Errors.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := o.log.With().Str("run_id", runID).Logger()

	result := &RunResult{RunID: runID, Skipped: domain.NewSkipLog()}

	// Phase 1: extraction
	log.Info().Int("tickers", len(o.tickers)).Int("lookback_days", o.lookbackDays).
		Msg("extracting daily series")
	raw, err := o.extract(ctx)
	if err != nil {
		o.countRun("extraction_failure", start)
		log.Error().Err(err).Msg("extraction failed, pipeline halted")
		return nil, fmt.Errorf("extract: %w", err)
	}
	if raw.Empty() {
		result.Status = StatusNoData
		o.countRun(string(StatusNoData), start)
		log.Warn().Msg("pipeline completed: no data extracted")
		return result, nil
	}

	// Phase 2: per-ticker transform (fan-out, no shared mutable state)
	log.Info().Msg("transforming per-ticker series")
	results, tickerErrs, err := o.transform(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	result.Errors = append(result.Errors, tickerErrs...)

	// Phase 3: consolidation
	table, skips := consolidate.Consolidate(results)
	result.Table = table
	result.Skipped = skips
	result.Rows = table.Len()
	o.recordTransform(table, skips)

	for _, e := range skips.Events() {
		log.Info().Str("ticker", e.Ticker).Str("reason", string(e.Reason)).
			Msg("ticker skipped")
	}

	if table.Empty() {
		result.Status = StatusNoRows
		o.countRun(string(StatusNoRows), start)
		log.Warn().Int("skipped", skips.Count()).
			Msg("pipeline completed: no rows survived transformation")
		return result, nil
	}
	log.Info().Int("rows", table.Len()).Int("skipped", skips.Count()).
		Msg("consolidation complete")

	// Phase 4: sinks (independent, non-fatal)
	o.persist(ctx, log, table, result)
	o.recordHistory(ctx, log, runID, table, result)
	o.report(log, table, skips, result)

	result.Status = StatusSuccess
	o.countRun(string(StatusSuccess), start)
	log.Info().Int("rows", result.Rows).Int("errors", len(result.Errors)).
		Msg("pipeline completed")

	return result, nil
}

// extract calls the provider under the configured timeout.
func (o *Orchestrator) extract(ctx context.Context) (*domain.RawSeriesTable, error) {
	if o.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.extractTimeout)
		defer cancel()
	}
	return o.provider.FetchDaily(ctx, o.tickers, o.lookbackDays)
}

// transform processes all tickers concurrently. Each worker writes only its
// own slot, so no locking is needed during the fan-out; results are merged
// after every worker completes. A ticker that exceeds its own deadline
// contributes zero rows; only run-level cancellation aborts the phase.
func (o *Orchestrator) transform(ctx context.Context, raw *domain.RawSeriesTable) ([]*processing.Result, []string, error) {
	processor := processing.NewProcessor(
		cleaning.NewCleaner(o.fillPolicy),
		features.NewEngine(o.window),
	)

	results := make([]*processing.Result, len(o.tickers))
	tickerErrs := make([]string, len(o.tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, ticker := range o.tickers {
		g.Go(func() error {
			tctx := gctx
			if o.tickerTimeout > 0 {
				var cancel context.CancelFunc
				tctx, cancel = context.WithTimeout(gctx, o.tickerTimeout)
				defer cancel()
			}

			res, err := processor.Process(tctx, ticker, raw)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Per-ticker deadline; one pathological ticker must not
				// stall the whole run.
				tickerErrs[i] = fmt.Sprintf("process %s: %v", ticker, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var errs []string
	for _, e := range tickerErrs {
		if e != "" {
			errs = append(errs, e)
		}
	}
	return results, errs, nil
}

// persist replaces the relational sink's table. Failure is fatal to
// persistence only; charting still proceeds from the in-memory table.
func (o *Orchestrator) persist(ctx context.Context, log zerolog.Logger, table *domain.ConsolidatedTable, result *RunResult) {
	if err := o.trendStore.ReplaceAll(ctx, table.Sorted()); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("persist: %v", err))
		o.countSinkError("trend_store")
		log.Error().Err(err).Msg("trend store write failed")
		return
	}
	log.Info().Int("rows", table.Len()).Msg("trend table replaced")
}

// recordHistory appends the run to the analytical history store, when one is
// configured. Non-fatal.
func (o *Orchestrator) recordHistory(ctx context.Context, log zerolog.Logger, runID string, table *domain.ConsolidatedTable, result *RunResult) {
	if o.historyStore == nil {
		return
	}
	if err := o.historyStore.InsertRun(ctx, runID, table.Sorted()); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			log.Warn().Msg("run already recorded in feature history")
			return
		}
		result.Errors = append(result.Errors, fmt.Sprintf("history: %v", err))
		o.countSinkError("feature_history")
		log.Error().Err(err).Msg("feature history write failed")
		return
	}
	log.Info().Msg("run recorded in feature history")
}

// report renders the CSV export, run summary and diagnostic chart.
// Non-fatal; a chart ticker with no rows is a logged notice, not an error.
func (o *Orchestrator) report(log zerolog.Logger, table *domain.ConsolidatedTable, skips *domain.SkipLog, result *RunResult) {
	if o.reporter == nil {
		return
	}

	if path, err := o.reporter.WriteCSV(table); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("csv: %v", err))
		o.countSinkError("csv")
		log.Error().Err(err).Msg("csv export failed")
	} else {
		log.Info().Str("path", path).Msg("csv exported")
	}

	if path, err := o.reporter.WriteSummary(table, skips); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("summary: %v", err))
		log.Error().Err(err).Msg("run summary failed")
	} else {
		log.Info().Str("path", path).Msg("run summary written")
	}

	if o.chartTicker == "" {
		return
	}
	path, err := o.reporter.RenderChart(table, o.chartTicker)
	switch {
	case errors.Is(err, reporting.ErrNoRowsForTicker):
		log.Warn().Str("ticker", o.chartTicker).Msg("chart skipped: ticker has no rows")
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("chart: %v", err))
		o.countSinkError("chart")
		log.Error().Err(err).Msg("chart render failed")
	default:
		if o.metrics != nil {
			o.metrics.ChartsRendered.Inc()
		}
		log.Info().Str("path", path).Msg("chart rendered")
	}
}

func (o *Orchestrator) countRun(status string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	o.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
}

func (o *Orchestrator) countSinkError(sink string) {
	if o.metrics == nil {
		return
	}
	o.metrics.SinkWriteErrors.WithLabelValues(sink).Inc()
}

func (o *Orchestrator) recordTransform(table *domain.ConsolidatedTable, skips *domain.SkipLog) {
	if o.metrics == nil {
		return
	}
	processed := len(o.tickers) - skips.Count()
	if processed > 0 {
		o.metrics.TickersProcessed.Add(float64(processed))
	}
	for _, e := range skips.Events() {
		o.metrics.TickersSkipped.WithLabelValues(string(e.Reason)).Inc()
	}
	o.metrics.RowsProduced.Add(float64(table.Len()))
}
