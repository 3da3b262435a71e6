// ABOUTME: Tests for filter translation and fault-isolated retrieval
// ABOUTME: Covers the hourly inclusion-set cap and per-index k values
package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harper/correspondent/internal/index"
	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// stubEmbedder returns a fixed vector or an error
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float64{1, 0, 0}, nil
}

func testSearcher(t *testing.T, emb index.Embedder) (*Searcher, *index.Loader) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	loader := index.NewLoader(store, emb, nil)
	return NewSearcher(loader, nil), loader
}

func TestHourlyTimestampsCapAt500(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30) // 30 days = 721 hourly values uncapped

	values := hourlyTimestamps(start, end)
	if len(values) != maxFilterValues {
		t.Fatalf("got %d values, want cap of %d", len(values), maxFilterValues)
	}
	if values[0] != start.Unix() {
		t.Error("truncation must drop the tail, not the head")
	}
	last := values[len(values)-1].(int64)
	if last != start.Add(499*time.Hour).Unix() {
		t.Errorf("got last value %d, want 499 hours after start", last)
	}
}

func TestHourlyTimestampsInclusive(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	values := hourlyTimestamps(start, end)
	if len(values) != 3 {
		t.Errorf("got %d values, want 3 (both endpoints inclusive)", len(values))
	}
}

func TestBuildFilter(t *testing.T) {
	if got := buildFilter("", time.Time{}, time.Time{}); got != nil {
		t.Errorf("unconstrained filter should be nil, got %v", got)
	}

	got := buildFilter("Dana", time.Time{}, time.Time{})
	if got["contact"] != "Dana" {
		t.Errorf("got %v, want contact filter", got)
	}
	if _, ok := got["timestamp"]; ok {
		t.Error("contact-only filter should not constrain timestamps")
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got = buildFilter("Dana", start, start.Add(time.Hour))
	pred, ok := got["timestamp"].(map[string]any)
	if !ok {
		t.Fatalf("got %v, want $in timestamp predicate", got["timestamp"])
	}
	if set := pred["$in"].([]any); len(set) != 2 {
		t.Errorf("got %d timestamps, want 2", len(set))
	}
}

func TestSearcherQueriesThreeIndices(t *testing.T) {
	searcher, loader := testSearcher(t, &stubEmbedder{})
	ctx := context.Background()

	docs := map[*index.Index]models.Document{
		loader.Weekly():   {ID: "w1", Content: "week summary", Metadata: map[string]any{"contact": "Dana"}},
		loader.Identity(): {ID: "i1", Content: "profile", Metadata: map[string]any{"contact": "Dana"}},
		loader.Messages(): {ID: "m1", Content: "a message", Metadata: map[string]any{"contact": "Dana"}},
	}
	for ix, doc := range docs {
		if err := ix.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	results, err := searcher.Search(ctx, "anything", SearchOptions{Contact: "Dana"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Summaries) != 1 || len(results.Identity) != 1 || len(results.Messages) != 1 {
		t.Errorf("got %d/%d/%d results, want 1/1/1",
			len(results.Summaries), len(results.Identity), len(results.Messages))
	}
}

func TestSearcherIdentityIgnoresDateRange(t *testing.T) {
	searcher, loader := testSearcher(t, &stubEmbedder{})
	ctx := context.Background()

	// Profile timestamp far outside the queried range
	err := loader.Identity().Upsert(ctx, models.Document{
		ID:       "i1",
		Content:  "profile",
		Metadata: map[string]any{"contact": "Dana", "timestamp": int64(0)},
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	results, err := searcher.Search(ctx, "who is dana", SearchOptions{
		Contact:   "Dana",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Identity) != 1 {
		t.Error("identity lookup must use the contact filter only")
	}
}

func TestSearcherIsolatesIndexFailures(t *testing.T) {
	searcher, _ := testSearcher(t, &stubEmbedder{err: errors.New("embedding service down")})

	results, err := searcher.Search(context.Background(), "anything", SearchOptions{})
	if err != nil {
		t.Fatalf("index failures must not fail the search: %v", err)
	}
	if !results.Empty() {
		t.Error("failed lookups should contribute empty slots")
	}
}

func TestSearcherHonorsAllowList(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	loader := index.NewLoader(store, &stubEmbedder{}, nil)
	searcher := NewSearcher(loader, NewPrivacyFilter([]string{"Dana"}))

	results, err := searcher.Search(context.Background(), "anything", SearchOptions{Contact: "Sam"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !results.Empty() {
		t.Error("disallowed contact should return empty results")
	}
}

func TestSearcherDegradesWhenIdentityIndexFails(t *testing.T) {
	searcher, loader := testSearcher(t, &stubEmbedder{})
	ctx := context.Background()

	docs := map[*index.Index]models.Document{
		loader.Weekly():   {ID: "w1", Content: "week summary", Metadata: map[string]any{"contact": "Dana"}},
		loader.Messages(): {ID: "m1", Content: "a message", Metadata: map[string]any{"contact": "Dana"}},
	}
	for ix, doc := range docs {
		if err := ix.Upsert(ctx, doc); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	// Identity index over a closed database: its lookup fails while the
	// other two stay healthy
	broken, err := sqlite.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to create broken storage: %v", err)
	}
	if err := broken.Close(); err != nil {
		t.Fatalf("failed to close broken storage: %v", err)
	}
	searcher.identity = index.New(broken, &stubEmbedder{}, index.CollectionIdentity)

	results, err := searcher.Search(ctx, "anything", SearchOptions{Contact: "Dana"})
	if err != nil {
		t.Fatalf("one failing index must not fail the search: %v", err)
	}
	if len(results.Identity) != 0 {
		t.Errorf("identity slot should be empty, got %d", len(results.Identity))
	}
	if len(results.Summaries) != 1 {
		t.Errorf("got %d summaries, want 1 from the healthy index", len(results.Summaries))
	}
	if len(results.Messages) != 1 {
		t.Errorf("got %d messages, want 1 from the healthy index", len(results.Messages))
	}
}
