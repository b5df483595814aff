// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Run metrics
	PipelineRunsTotal *prometheus.CounterVec // by terminal status
	PipelineDuration  prometheus.Histogram

	// Transformation metrics
	TickersProcessed prometheus.Counter
	TickersSkipped   *prometheus.CounterVec // by skip reason
	RowsProduced     prometheus.Counter

	// Sink metrics
	SinkWriteErrors  *prometheus.CounterVec // by sink
	ChartsRendered   prometheus.Counter
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Pipeline runs by terminal status",
		}, []string{"status"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Full pipeline run duration",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		TickersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_tickers_processed_total",
			Help: "Tickers that contributed rows to the consolidated table",
		}),
		TickersSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_tickers_skipped_total",
			Help: "Tickers skipped during transformation, by reason",
		}, []string{"reason"}),
		RowsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_rows_produced_total",
			Help: "Featured rows in consolidated tables across runs",
		}),
		SinkWriteErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_sink_write_errors_total",
			Help: "Non-fatal sink write failures, by sink",
		}, []string{"sink"}),
		ChartsRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_charts_rendered_total",
			Help: "Diagnostic charts written to the reports directory",
		}),
	}
}
