package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

func row(ticker string, dayOffset int, close float64) domain.FeaturedRow {
	return domain.FeaturedRow{
		Ticker:     ticker,
		Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
		Close:      close,
		MA50:       close,
		Volatility: 1.0,
	}
}

func TestTrendStore_ReplaceAll(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	first := []domain.FeaturedRow{row("A", 0, 100), row("A", 1, 101), row("B", 0, 50)}
	if err := store.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	second := []domain.FeaturedRow{row("C", 0, 10)}
	if err := store.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 || all[0].Ticker != "C" {
		t.Errorf("Replace should discard prior rows, got %v", all)
	}
}

func TestTrendStore_ReplaceAllEmptyClears(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, []domain.FeaturedRow{row("A", 0, 100)}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if err := store.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("ReplaceAll with empty rows failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected cleared table, got %v", all)
	}
}

func TestTrendStore_ReplaceAllValidation(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	err := store.ReplaceAll(ctx, []domain.FeaturedRow{row("", 0, 100)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Empty ticker: expected ErrInvalidInput, got %v", err)
	}

	bad := row("A", 0, 100)
	bad.MA50 = math.NaN()
	err = store.ReplaceAll(ctx, []domain.FeaturedRow{bad})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("NaN feature: expected ErrInvalidInput, got %v", err)
	}
}

func TestTrendStore_GetByTicker(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	rows := []domain.FeaturedRow{row("B", 0, 50), row("A", 1, 101), row("A", 0, 100)}
	if err := store.ReplaceAll(ctx, rows); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.GetByTicker(ctx, "A")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows for A, got %d", len(got))
	}
	if !got[0].Date.Before(got[1].Date) {
		t.Error("Rows not ordered by date ASC")
	}

	none, err := store.GetByTicker(ctx, "ZZZ")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Unknown ticker should yield no rows, got %v", none)
	}
}

func TestTrendStore_GetAllOrdering(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	rows := []domain.FeaturedRow{row("B", 1, 51), row("A", 1, 101), row("B", 0, 50), row("A", 0, 100)}
	if err := store.ReplaceAll(ctx, rows); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Ticker > cur.Ticker ||
			(prev.Ticker == cur.Ticker && prev.Date.After(cur.Date)) {
			t.Fatalf("Rows not ordered by (ticker, date): %v", all)
		}
	}
}

func TestTrendStore_ResultIsolation(t *testing.T) {
	store := NewTrendStore()
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, []domain.FeaturedRow{row("A", 0, 100)}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	got[0].Close = -1

	again, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if again[0].Close != 100 {
		t.Error("Mutating a returned slice leaked into the store")
	}
}
