package ingest_test

import (
	"context"
	"testing"
	"time"

	"curator/internal/content"
	"curator/internal/ingest"
	"curator/internal/logging"
	"curator/internal/store"
	"curator/internal/testsupport"
)

func newGate(t *testing.T) (*ingest.Gate, *store.Store, *content.Source) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	source, err := st.AddSource(context.Background(), "chan", content.SourceTypeVideoChannel, "https://www.youtube.com/@chan")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	return ingest.New(st, logging.NewNop()), st, source
}

func TestIngestBatchInsertsAndCounts(t *testing.T) {
	gate, st, source := newGate(t)
	ctx := context.Background()

	published := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	result, err := gate.IngestBatch(ctx, source, []content.Candidate{
		{Title: "One", URL: "https://example.com/1", Transcript: "hello world", PublishedDate: &published, DurationSeconds: 125},
		{Title: "Two", URL: "https://example.com/2"},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.New != 2 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	item, err := st.ItemByURL(ctx, "https://example.com/1")
	if err != nil || item == nil {
		t.Fatalf("ItemByURL: %v, %v", item, err)
	}
	if item.State() != content.StateUnrated {
		t.Fatalf("new item state = %s", item.State())
	}
	if item.DurationMinutes != 2 {
		t.Fatalf("duration minutes = %d", item.DurationMinutes)
	}
	if item.FetchedAt.IsZero() {
		t.Fatal("fetched_at not stamped")
	}

	updated, err := st.SourceByID(ctx, source.ID)
	if err != nil {
		t.Fatalf("SourceByID: %v", err)
	}
	if updated.LastFetchAt == nil {
		t.Fatal("last_fetch_at not stamped")
	}

	logs, err := st.RecentFetchLogs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentFetchLogs: %v", err)
	}
	if len(logs) != 1 || !logs[0].Success || logs[0].ItemsFetched != 2 {
		t.Fatalf("fetch logs = %+v", logs)
	}
}

func TestIngestBatchIsIdempotentAcrossOverlappingWindows(t *testing.T) {
	gate, st, source := newGate(t)
	ctx := context.Background()

	batch := []content.Candidate{
		{Title: "One", URL: "https://example.com/1"},
		{Title: "Two", URL: "https://example.com/2"},
	}
	if _, err := gate.IngestBatch(ctx, source, batch); err != nil {
		t.Fatalf("first IngestBatch: %v", err)
	}

	overlapping := append(batch, content.Candidate{Title: "Three", URL: "https://example.com/3"})
	result, err := gate.IngestBatch(ctx, source, overlapping)
	if err != nil {
		t.Fatalf("second IngestBatch: %v", err)
	}
	if result.New != 1 || result.Skipped != 2 {
		t.Fatalf("result = %+v", result)
	}

	for _, url := range []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"} {
		item, err := st.ItemByURL(ctx, url)
		if err != nil || item == nil {
			t.Fatalf("item for %s missing: %v", url, err)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalItems != 3 {
		t.Fatalf("total items = %d, want 3", stats.TotalItems)
	}
}

func TestIngestBatchTreatsInsertRaceAsDuplicate(t *testing.T) {
	gate, st, source := newGate(t)
	ctx := context.Background()

	// Force the race: a concurrent writer claims the URL between the gate's
	// existence check and its insert.
	gate.SetAfterLookupHook(func() {
		if _, err := st.InsertItem(ctx, &content.Item{SourceID: source.ID, Title: "raced", URL: "https://example.com/raced"}); err != nil {
			t.Fatalf("concurrent insert: %v", err)
		}
	})

	result, err := gate.IngestBatch(ctx, source, []content.Candidate{
		{Title: "raced again", URL: "https://example.com/raced"},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.New != 0 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestIngestBatchSkipsBlankURLs(t *testing.T) {
	gate, _, source := newGate(t)

	result, err := gate.IngestBatch(context.Background(), source, []content.Candidate{
		{Title: "no url", URL: "  "},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.New != 0 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRecordFailureAppendsFailedLog(t *testing.T) {
	gate, st, source := newGate(t)
	ctx := context.Background()

	gate.RecordFailure(ctx, source, time.Now().UTC(), context.DeadlineExceeded)

	logs, err := st.RecentFetchLogs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentFetchLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Success {
		t.Fatalf("fetch logs = %+v", logs)
	}
	if logs[0].ErrorMessage == "" {
		t.Fatal("error message missing")
	}
}
