// ABOUTME: Identity profile generation across all contacts
// ABOUTME: Sequential batch with inter-contact pauses and error backoff
package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/correspondent/internal/llm"
	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// IdentityAggregator builds an evolving profile per contact. Profiles are
// append-only versions; the previous version is fed back as context so
// each run revises rather than restarts.
type IdentityAggregator struct {
	store   *sqlite.Storage
	gateway Summarizer

	// MinMessages is the exclusive threshold below which a contact is
	// skipped for lack of signal.
	MinMessages int
	// ContactPause separates contacts to spread load on the shared rate
	// budget. Not applied after the last contact.
	ContactPause time.Duration
	// ErrorPause is the extra wait after a per-contact failure before
	// moving on.
	ErrorPause time.Duration

	sleep func(time.Duration)
}

// NewIdentityAggregator creates an aggregator with the default pauses.
func NewIdentityAggregator(store *sqlite.Storage, gateway Summarizer) *IdentityAggregator {
	return &IdentityAggregator{
		store:        store,
		gateway:      gateway,
		MinMessages:  5,
		ContactPause: 10 * time.Second,
		ErrorPause:   30 * time.Second,
		sleep:        time.Sleep,
	}
}

// SetSleep overrides the pause function (for testing)
func (a *IdentityAggregator) SetSleep(sleep func(time.Duration)) {
	a.sleep = sleep
}

// Run profiles every eligible contact sequentially. Per-contact failures
// are logged, followed by the error pause, and do not stop the batch.
func (a *IdentityAggregator) Run(ctx context.Context) error {
	contacts, err := a.store.Contacts.All()
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	// Filter up front so the last-contact pause rule sees only the
	// contacts actually processed
	var eligible []models.Contact
	for _, contact := range contacts {
		count, err := a.store.Messages.CountForContact(contact.ID)
		if err != nil {
			return fmt.Errorf("failed to count messages for %s: %w", contact.Name(), err)
		}
		if count > a.MinMessages {
			eligible = append(eligible, contact)
		}
	}
	log.Printf("[IdentityAggregator] profiling %d of %d contacts", len(eligible), len(contacts))

	for i, contact := range eligible {
		if err := a.ProcessContact(ctx, &contact); err != nil {
			log.Printf("[IdentityAggregator] contact %s: %v", contact.Name(), err)
			a.sleep(a.ErrorPause)
		}
		if i < len(eligible)-1 {
			a.sleep(a.ContactPause)
		}
	}
	return nil
}

// ProcessContact generates and persists one new profile version.
func (a *IdentityAggregator) ProcessContact(ctx context.Context, contact *models.Contact) error {
	msgs, err := a.store.Messages.GetAllForContact(contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load message history: %w", err)
	}
	if len(msgs) == 0 {
		return nil
	}

	prev, err := a.store.Identity.GetLatest(contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load previous profile: %w", err)
	}

	sampled := Sample(msgs, DefaultSampleCap)
	prompt := llm.BuildIdentityPrompt(contact.Name(), prev, sampled)

	parsed, _, err := a.gateway.Summarize(ctx, llm.IdentitySystem, prompt, llm.IdentityFields)
	if err != nil {
		return fmt.Errorf("profile generation failed: %w", err)
	}

	summaryText, _ := parsed["summary"].(string)
	if summaryText == "" {
		return fmt.Errorf("profile response had empty summary")
	}

	err = a.store.Identity.Save(&models.IdentitySummary{
		ContactID:           contact.ID,
		Summary:             summaryText,
		PersonalityTraits:   llm.ScoreMap(parsed["personality_traits"]),
		RelationshipContext: llm.ScoreMap(parsed["relationship_context"]),
		CommonTopics:        llm.StringList(parsed["common_topics"]),
		ConfidenceScores:    llm.ScoreMap(parsed["confidence_scores"]),
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	log.Printf("[IdentityAggregator] profiled %s (%d messages, %d sampled)",
		contact.Name(), len(msgs), len(sampled))
	return nil
}
