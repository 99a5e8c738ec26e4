package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fullset/internal/collector"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history", "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return st
}

func testSummary(runID string, lengths ...int) *collector.Summary {
	h := collector.NewHist()
	for _, length := range lengths {
		h.Observe(length)
	}
	s := collector.ComputeSummary(h, 42*time.Millisecond)
	s.RunID = runID
	return s
}

func TestStore_InsertAndGetLatest(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.InsertRun(ctx, testSummary("aaaa1111", 8, 12, 12, 20), 4, 99)
	if err != nil {
		t.Fatalf("inserting run: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero row id")
	}

	run, err := st.GetRun(ctx, "latest")
	if err != nil {
		t.Fatalf("getting latest run: %v", err)
	}
	if run.RunID != "aaaa1111" {
		t.Errorf("run_id = %q", run.RunID)
	}
	if run.Trials != 4 || run.Workers != 4 || run.Seed != 99 {
		t.Errorf("run = %+v", run)
	}
	if run.MeanLength != 13 {
		t.Errorf("mean = %v, expected 13", run.MeanLength)
	}
	if run.MinLength != 8 || run.MaxLength != 20 {
		t.Errorf("bounds = %d/%d", run.MinLength, run.MaxLength)
	}
	if run.Elapsed != 42*time.Millisecond {
		t.Errorf("elapsed = %v", run.Elapsed)
	}
}

func TestStore_BucketsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	summary := testSummary("bbbb2222", 8, 12, 12, 20)
	id, err := st.InsertRun(ctx, summary, 1, 0)
	if err != nil {
		t.Fatalf("inserting run: %v", err)
	}

	buckets, err := st.Buckets(ctx, id)
	if err != nil {
		t.Fatalf("loading buckets: %v", err)
	}
	if len(buckets) != len(summary.Histogram) {
		t.Fatalf("expected %d buckets, got %d", len(summary.Histogram), len(buckets))
	}
	for length, count := range summary.Histogram {
		if buckets[length] != count {
			t.Errorf("length %d: stored %d, expected %d", length, buckets[length], count)
		}
	}
}

func TestStore_GetRunByPrefix(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertRun(ctx, testSummary("cafe0123-dead", 9, 10), 1, 0); err != nil {
		t.Fatalf("inserting run: %v", err)
	}

	run, err := st.GetRun(ctx, "cafe")
	if err != nil {
		t.Fatalf("getting run by prefix: %v", err)
	}
	if run.RunID != "cafe0123-dead" {
		t.Errorf("run_id = %q", run.RunID)
	}
}

func TestStore_GetRunNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = st.GetRun(context.Background(), "latest")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store latest: expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, runID := range []string{"run-1", "run-2", "run-3"} {
		if _, err := st.InsertRun(ctx, testSummary(runID, 10, 11), 1, 0); err != nil {
			t.Fatalf("inserting %s: %v", runID, err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-3" || runs[1].RunID != "run-2" {
		t.Errorf("unexpected order: %q, %q", runs[0].RunID, runs[1].RunID)
	}
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := st.InsertRun(context.Background(), testSummary("keep", 15), 1, 0); err != nil {
		t.Fatalf("inserting run: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "keep" {
		t.Errorf("data lost across reopen: %+v", runs)
	}
}
