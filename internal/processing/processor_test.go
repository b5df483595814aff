package processing

import (
	"context"
	"testing"
	"time"

	"equity-trend-etl/internal/cleaning"
	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/features"
)

func rampObs(n int, start, step float64) []domain.Observation {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]domain.Observation, n)
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		obs[i] = domain.Observation{
			Date: from.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100,
		}
	}
	return obs
}

func newProcessor() *Processor {
	return NewProcessor(cleaning.NewCleaner(cleaning.FillUnionCalendar), features.NewEngine(50))
}

func TestProcess_TaggedRows(t *testing.T) {
	raw := domain.BuildRawSeriesTable(map[string][]domain.Observation{
		"A": rampObs(100, 100.0, 0.1),
	})

	result, err := newProcessor().Process(context.Background(), "A", raw)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Skip != nil {
		t.Fatalf("Unexpected skip: %+v", result.Skip)
	}
	if len(result.Rows) != 51 {
		t.Fatalf("Expected 51 rows (indices 49..99), got %d", len(result.Rows))
	}
	for _, r := range result.Rows {
		if r.Ticker != "A" {
			t.Errorf("Row not tagged with ticker: %+v", r)
		}
	}
}

func TestProcess_AbsentTicker(t *testing.T) {
	raw := domain.BuildRawSeriesTable(map[string][]domain.Observation{
		"A": rampObs(100, 100.0, 0.1),
	})

	result, err := newProcessor().Process(context.Background(), "XYZ", raw)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(result.Rows) != 0 {
		t.Errorf("Absent ticker contributed %d rows", len(result.Rows))
	}
	if result.Skip == nil || result.Skip.Reason != domain.SkipNoData {
		t.Fatalf("Expected skip with reason %q, got %+v", domain.SkipNoData, result.Skip)
	}
	if result.Skip.Ticker != "XYZ" {
		t.Errorf("Skip carries wrong ticker: %q", result.Skip.Ticker)
	}
}

func TestProcess_InsufficientHistory(t *testing.T) {
	raw := domain.BuildRawSeriesTable(map[string][]domain.Observation{
		"NEW": rampObs(30, 10.0, 0.5),
	})

	result, err := newProcessor().Process(context.Background(), "NEW", raw)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(result.Rows) != 0 {
		t.Errorf("Expected zero rows, got %d", len(result.Rows))
	}
	if result.Skip == nil || result.Skip.Reason != domain.SkipInsufficientHistory {
		t.Fatalf("Expected insufficient-history skip, got %+v", result.Skip)
	}
}

func TestProcess_DoesNotMutateTable(t *testing.T) {
	raw := domain.BuildRawSeriesTable(map[string][]domain.Observation{
		"A": rampObs(60, 100.0, 0.1),
		"B": rampObs(60, 200.0, 0.1),
	})

	p := newProcessor()
	first, err := p.Process(context.Background(), "A", raw)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	second, err := p.Process(context.Background(), "A", raw)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(first.Rows) != len(second.Rows) {
		t.Fatalf("Repeated processing differs: %d vs %d rows", len(first.Rows), len(second.Rows))
	}
	for i := range first.Rows {
		if first.Rows[i] != second.Rows[i] {
			t.Errorf("Row %d differs between runs: %+v vs %+v", i, first.Rows[i], second.Rows[i])
		}
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	raw := domain.BuildRawSeriesTable(map[string][]domain.Observation{
		"A": rampObs(60, 100.0, 0.1),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newProcessor().Process(ctx, "A", raw); err == nil {
		t.Error("Expected error from cancelled context")
	}
}
