// ABOUTME: Tests for the index loader against an in-memory relational store
// ABOUTME: Verifies denormalized metadata, flattened traits, and lookback
package index

import (
	"context"
	"testing"
	"time"

	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

func testLoader(t *testing.T, sanitize Sanitizer) (*Loader, *sqlite.Storage) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	emb := &fakeEmbedder{vectors: map[string][]float64{}}
	return NewLoader(store, emb, sanitize), store
}

func seedContactWithMessage(t *testing.T, store *sqlite.Storage, identifier, name, text string, date time.Time) int64 {
	t.Helper()
	contactID, err := store.Contacts.Upsert(identifier, name)
	if err != nil {
		t.Fatalf("failed to upsert contact: %v", err)
	}
	chatID, err := store.Contacts.UpsertChat("chat-" + identifier)
	if err != nil {
		t.Fatalf("failed to upsert chat: %v", err)
	}
	if _, err := store.Messages.Save(&models.Message{
		ChatID:    chatID,
		ContactID: contactID,
		Text:      text,
		Date:      date,
	}); err != nil {
		t.Fatalf("failed to save message: %v", err)
	}
	return contactID
}

func TestLoadWeeklySummariesMetadata(t *testing.T) {
	loader, store := testLoader(t, nil)
	contactID := seedContactWithMessage(t, store, "+15551234567", "Dana", "hi", time.Now())

	weekStart := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	err := store.Weekly.Save(&models.WeeklySummary{
		ContactID: contactID,
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDate(0, 0, 7),
		Summary:   "Planned the cabin trip.",
	})
	if err != nil {
		t.Fatalf("failed to save weekly summary: %v", err)
	}

	n, err := loader.LoadWeeklySummaries(context.Background())
	if err != nil {
		t.Fatalf("LoadWeeklySummaries failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("indexed %d documents, want 1", n)
	}

	docs, err := loader.Weekly().Query(context.Background(), "cabin", 1, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	meta := docs[0].Metadata
	if meta["content_type"] != models.ContentTypeWeeklySummary {
		t.Errorf("got content_type %v, want weekly_summary", meta["content_type"])
	}
	if meta["contact"] != "Dana" {
		t.Errorf("got contact %v, want Dana", meta["contact"])
	}
	if meta["week_start"] != "2025-02-03" {
		t.Errorf("got week_start %v, want 2025-02-03", meta["week_start"])
	}
	if _, ok := meta["timestamp"]; !ok {
		t.Error("expected denormalized timestamp metadata")
	}
}

func TestLoadIdentitySummariesFlattensTraits(t *testing.T) {
	loader, store := testLoader(t, nil)
	contactID := seedContactWithMessage(t, store, "+15551234567", "Dana", "hi", time.Now())

	err := store.Identity.Save(&models.IdentitySummary{
		ContactID:           contactID,
		Summary:             "An old college friend.",
		PersonalityTraits:   map[string]float64{"curious": 0.9},
		RelationshipContext: map[string]float64{"closeness": 0.8},
		CommonTopics:        []string{"travel"},
		ConfidenceScores:    map[string]float64{"summary": 0.7},
	})
	if err != nil {
		t.Fatalf("failed to save identity summary: %v", err)
	}

	n, err := loader.LoadIdentitySummaries(context.Background())
	if err != nil {
		t.Fatalf("LoadIdentitySummaries failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("indexed %d documents, want 1", n)
	}

	docs, err := loader.Identity().Query(context.Background(), "friend", 1, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	meta := docs[0].Metadata
	if got := meta["trait_curious"]; got != 0.9 {
		t.Errorf("got trait_curious %v, want 0.9", got)
	}
	if got := meta["relationship_closeness"]; got != 0.8 {
		t.Errorf("got relationship_closeness %v, want 0.8", got)
	}
}

func TestLoadIdentityIndexesOnlyNewestVersion(t *testing.T) {
	loader, store := testLoader(t, nil)
	contactID := seedContactWithMessage(t, store, "+15551234567", "Dana", "hi", time.Now())

	for _, summary := range []string{"old profile", "new profile"} {
		err := store.Identity.Save(&models.IdentitySummary{
			ContactID: contactID,
			Summary:   summary,
		})
		if err != nil {
			t.Fatalf("failed to save identity summary: %v", err)
		}
	}

	if _, err := loader.LoadIdentitySummaries(context.Background()); err != nil {
		t.Fatalf("LoadIdentitySummaries failed: %v", err)
	}

	count, err := loader.Identity().Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d identity documents, want 1 (newest only)", count)
	}
}

func TestLoadRecentMessagesHonorsLookback(t *testing.T) {
	loader, store := testLoader(t, nil)
	contactID := seedContactWithMessage(t, store, "+15551234567", "Dana", "recent message", time.Now().AddDate(0, 0, -5))

	chatID, err := store.Contacts.UpsertChat("chat-old")
	if err != nil {
		t.Fatalf("failed to upsert chat: %v", err)
	}
	if _, err := store.Messages.Save(&models.Message{
		ChatID:    chatID,
		ContactID: contactID,
		Text:      "ancient message",
		Date:      time.Now().AddDate(0, 0, -90),
	}); err != nil {
		t.Fatalf("failed to save message: %v", err)
	}

	n, err := loader.LoadRecentMessages(context.Background(), 30)
	if err != nil {
		t.Fatalf("LoadRecentMessages failed: %v", err)
	}
	if n != 1 {
		t.Errorf("indexed %d messages, want 1 inside the lookback window", n)
	}
}

func TestLoaderAppliesSanitizer(t *testing.T) {
	masked := func(string) string { return "[REDACTED]" }
	loader, store := testLoader(t, masked)
	seedContactWithMessage(t, store, "+15551234567", "Dana", "my card is 4111111111111111", time.Now())

	if _, err := loader.LoadRecentMessages(context.Background(), 30); err != nil {
		t.Fatalf("LoadRecentMessages failed: %v", err)
	}

	docs, err := loader.Messages().Query(context.Background(), "card", 1, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if docs[0].Content != "[REDACTED]" {
		t.Errorf("got %q, want sanitized content", docs[0].Content)
	}
}
