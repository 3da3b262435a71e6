// ABOUTME: Tests for the identity aggregator's thresholds and pauses
// ABOUTME: Records sleeps through the injectable pause function
package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/correspondent/internal/models"
)

func identityResponse(summary string) map[string]any {
	return map[string]any{
		"summary":              summary,
		"personality_traits":   map[string]any{"curious": 0.8},
		"relationship_context": map[string]any{"closeness": 0.7},
		"common_topics":        []any{"travel"},
	}
}

func TestIdentityAggregatorSkipsSparseContacts(t *testing.T) {
	store := testStorage(t)
	start := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

	sparse := seedContact(t, store, "+15550000001", "Sparse")
	seedMessages(t, store, sparse.ID, start, 5, time.Hour) // at threshold, skipped

	active := seedContact(t, store, "+15550000002", "Active")
	seedMessages(t, store, active.ID, start, 6, time.Hour)

	gateway := &fakeSummarizer{response: identityResponse("A close friend.")}
	agg := NewIdentityAggregator(store, gateway)
	agg.SetSleep(func(time.Duration) {})

	if err := agg.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if gateway.calls != 1 {
		t.Errorf("got %d inference calls, want 1 (sparse contact skipped)", gateway.calls)
	}

	profile, err := store.Identity.GetLatest(sparse.ID)
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if profile != nil {
		t.Error("sparse contact should have no profile")
	}
}

func TestIdentityAggregatorPersistsProfile(t *testing.T) {
	store := testStorage(t)
	contact := seedContact(t, store, "+15551234567", "Dana")
	seedMessages(t, store, contact.ID, time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), 10, time.Hour)

	gateway := &fakeSummarizer{response: identityResponse("An old college friend.")}
	agg := NewIdentityAggregator(store, gateway)

	if err := agg.ProcessContact(context.Background(), contact); err != nil {
		t.Fatalf("ProcessContact failed: %v", err)
	}

	profile, err := store.Identity.GetLatest(contact.ID)
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if profile == nil {
		t.Fatal("expected a stored profile")
	}
	if profile.Summary != "An old college friend." {
		t.Errorf("got %q", profile.Summary)
	}
	if profile.PersonalityTraits["curious"] != 0.8 {
		t.Errorf("got traits %v", profile.PersonalityTraits)
	}
	if len(profile.ConfidenceScores) != 0 {
		t.Errorf("missing confidence scores should stay empty, got %v", profile.ConfidenceScores)
	}
}

func TestIdentityAggregatorFeedsPreviousProfile(t *testing.T) {
	store := testStorage(t)
	contact := seedContact(t, store, "+15551234567", "Dana")
	seedMessages(t, store, contact.ID, time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), 10, time.Hour)

	if err := store.Identity.Save(&models.IdentitySummary{
		ContactID: contact.ID,
		Summary:   "An acquaintance from work.",
	}); err != nil {
		t.Fatalf("failed to seed previous profile: %v", err)
	}

	gateway := &fakeSummarizer{response: identityResponse("Now a close friend.")}
	agg := NewIdentityAggregator(store, gateway)

	if err := agg.ProcessContact(context.Background(), contact); err != nil {
		t.Fatalf("ProcessContact failed: %v", err)
	}

	if len(gateway.prompts) != 1 || !strings.Contains(gateway.prompts[0], "An acquaintance from work.") {
		t.Error("prompt should include the previous profile as context")
	}

	history, err := store.Identity.History(contact.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("got %d versions, want 2 (append-only)", len(history))
	}
}

func TestIdentityAggregatorPauses(t *testing.T) {
	store := testStorage(t)
	start := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{"One", "Two", "Three"} {
		c := seedContact(t, store, "+1555"+name, name)
		seedMessages(t, store, c.ID, start, 6, time.Hour)
	}

	gateway := &fakeSummarizer{response: identityResponse("A friend.")}
	agg := NewIdentityAggregator(store, gateway)

	var sleeps []time.Duration
	agg.SetSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	if err := agg.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Two ContactPause sleeps for three contacts: none after the last
	if len(sleeps) != 2 {
		t.Fatalf("got %d sleeps, want 2", len(sleeps))
	}
	for _, d := range sleeps {
		if d != agg.ContactPause {
			t.Errorf("got sleep %v, want %v", d, agg.ContactPause)
		}
	}
}

func TestIdentityAggregatorErrorPause(t *testing.T) {
	store := testStorage(t)
	start := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	for _, name := range []string{"One", "Two"} {
		c := seedContact(t, store, "+1555"+name, name)
		seedMessages(t, store, c.ID, start, 6, time.Hour)
	}

	gateway := &fakeSummarizer{err: errors.New("provider unavailable")}
	agg := NewIdentityAggregator(store, gateway)

	var sleeps []time.Duration
	agg.SetSleep(func(d time.Duration) { sleeps = append(sleeps, d) })

	if err := agg.Run(context.Background()); err != nil {
		t.Fatalf("Run should continue past per-contact errors: %v", err)
	}

	// First contact: error pause + contact pause; last contact: error
	// pause only
	want := []time.Duration{agg.ErrorPause, agg.ContactPause, agg.ErrorPause}
	if len(sleeps) != len(want) {
		t.Fatalf("got %d sleeps %v, want %d", len(sleeps), sleeps, len(want))
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d: got %v, want %v", i, sleeps[i], want[i])
		}
	}
}
