package cache

import (
	"context"
	"testing"
	"time"

	"tragedy-commons/internal/commons"
)

func TestMemoryRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)
	results := []commons.RoundResult{commons.Summarize(1, []commons.Entry{{PlayerID: 1, Units: 20}})}

	if _, ok, _ := store.Get(ctx, 7); ok {
		t.Fatal("expected empty cache")
	}
	if err := store.Set(ctx, 7, results); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx, 7)
	if err != nil || !ok || len(got) != 1 || got[0].TotalUnits != 20 {
		t.Fatalf("unexpected cached value %#v ok=%v err=%v", got, ok, err)
	}
	if err := store.Invalidate(ctx, 7); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 7); ok {
		t.Fatal("expected invalidated entry to be gone")
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	_ = store.Set(ctx, 1, nil)
	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestResultsKey(t *testing.T) {
	if got := resultsKey(42); got != "tc:results:42" {
		t.Fatalf("unexpected key %q", got)
	}
}
