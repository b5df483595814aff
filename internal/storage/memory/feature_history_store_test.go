package memory

import (
	"context"
	"errors"
	"testing"

	"equity-trend-etl/internal/domain"
	"equity-trend-etl/internal/storage"
)

func TestFeatureHistoryStore_InsertAndGet(t *testing.T) {
	store := NewFeatureHistoryStore()
	ctx := context.Background()

	rows := []domain.FeaturedRow{row("B", 0, 50), row("A", 1, 101), row("A", 0, 100)}
	if err := store.InsertRun(ctx, "run-1", rows); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(got))
	}
	if got[0].Ticker != "A" || got[2].Ticker != "B" {
		t.Errorf("Rows not ordered by (ticker, date): %v", got)
	}
}

func TestFeatureHistoryStore_DuplicateRun(t *testing.T) {
	store := NewFeatureHistoryStore()
	ctx := context.Background()

	if err := store.InsertRun(ctx, "run-1", []domain.FeaturedRow{row("A", 0, 100)}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	err := store.InsertRun(ctx, "run-1", []domain.FeaturedRow{row("B", 0, 50)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// First insert remains intact.
	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 1 || got[0].Ticker != "A" {
		t.Errorf("Duplicate insert overwrote the run: %v", got)
	}
}

func TestFeatureHistoryStore_RunsAccumulate(t *testing.T) {
	store := NewFeatureHistoryStore()
	ctx := context.Background()

	if err := store.InsertRun(ctx, "run-1", []domain.FeaturedRow{row("A", 0, 100)}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := store.InsertRun(ctx, "run-2", []domain.FeaturedRow{row("A", 0, 101)}); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	first, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	second, err := store.GetByRunID(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if first[0].Close != 100 || second[0].Close != 101 {
		t.Errorf("Runs not kept separately: %v vs %v", first, second)
	}
}

func TestFeatureHistoryStore_UnknownRun(t *testing.T) {
	store := NewFeatureHistoryStore()

	_, err := store.GetByRunID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFeatureHistoryStore_EmptyRunID(t *testing.T) {
	store := NewFeatureHistoryStore()

	err := store.InsertRun(context.Background(), "", []domain.FeaturedRow{row("A", 0, 100)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}
