// ABOUTME: Builds the three semantic indices from the relational store
// ABOUTME: Denormalizes contact and timestamp metadata onto every document
package index

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// Sanitizer masks sensitive text before it is indexed. The identity
// function is a valid sanitizer.
type Sanitizer func(string) string

// Loader populates the weekly, identity, and message indices from the
// relational store. Document IDs are deterministic so repeated loads
// upsert instead of duplicating.
type Loader struct {
	store    *sqlite.Storage
	weekly   *Index
	identity *Index
	messages *Index
	sanitize Sanitizer
}

// NewLoader creates a loader and its three indices over the store's
// database. A nil sanitizer indexes text unmodified.
func NewLoader(store *sqlite.Storage, embedder Embedder, sanitize Sanitizer) *Loader {
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Loader{
		store:    store,
		weekly:   New(store.DB(), embedder, CollectionWeekly),
		identity: New(store.DB(), embedder, CollectionIdentity),
		messages: New(store.DB(), embedder, CollectionMessages),
		sanitize: sanitize,
	}
}

// Weekly returns the weekly summaries index.
func (l *Loader) Weekly() *Index { return l.weekly }

// Identity returns the identity summaries index.
func (l *Loader) Identity() *Index { return l.identity }

// Messages returns the recent messages index.
func (l *Loader) Messages() *Index { return l.messages }

// LoadAll rebuilds all three indices. Each index loads independently; a
// failure in one is logged and does not block the others.
func (l *Loader) LoadAll(ctx context.Context, messageLookbackDays int) error {
	var failures int

	if n, err := l.LoadWeeklySummaries(ctx); err != nil {
		log.Printf("[Loader] failed to load weekly summaries: %v", err)
		failures++
	} else {
		log.Printf("[Loader] indexed %d weekly summaries", n)
	}

	if n, err := l.LoadIdentitySummaries(ctx); err != nil {
		log.Printf("[Loader] failed to load identity summaries: %v", err)
		failures++
	} else {
		log.Printf("[Loader] indexed %d identity summaries", n)
	}

	if n, err := l.LoadRecentMessages(ctx, messageLookbackDays); err != nil {
		log.Printf("[Loader] failed to load recent messages: %v", err)
		failures++
	} else {
		log.Printf("[Loader] indexed %d recent messages", n)
	}

	if failures == 3 {
		return fmt.Errorf("all index loads failed")
	}
	return nil
}

// LoadWeeklySummaries indexes every weekly summary row.
func (l *Loader) LoadWeeklySummaries(ctx context.Context) (int, error) {
	summaries, names, err := l.store.Weekly.All()
	if err != nil {
		return 0, fmt.Errorf("failed to read weekly summaries: %w", err)
	}

	count := 0
	for _, s := range summaries {
		doc := models.Document{
			ID:      fmt.Sprintf("weekly_%d_%s", s.ContactID, s.WeekStart.Format("2006-01-02")),
			Content: l.sanitize(s.Summary),
			Metadata: map[string]any{
				"content_type": models.ContentTypeWeeklySummary,
				"contact":      names[s.ContactID],
				"week_start":   s.WeekStart.Format("2006-01-02"),
				"week_end":     s.WeekEnd.Format("2006-01-02"),
				"created_at":   s.CreatedAt.Format(time.RFC3339),
				"timestamp":    hourFloor(s.CreatedAt),
			},
		}
		if err := l.weekly.Upsert(ctx, doc); err != nil {
			log.Printf("[Loader] skipping weekly summary %s: %v", doc.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

// LoadIdentitySummaries indexes the newest profile per contact, with
// trait and relationship scores flattened into filterable metadata.
func (l *Loader) LoadIdentitySummaries(ctx context.Context) (int, error) {
	latest, names, err := l.store.Identity.Latest()
	if err != nil {
		return 0, fmt.Errorf("failed to read identity summaries: %w", err)
	}

	count := 0
	for _, s := range latest {
		metadata := map[string]any{
			"content_type": models.ContentTypeIdentitySummary,
			"contact":      names[s.ContactID],
			"created_at":   s.CreatedAt.Format(time.RFC3339),
			"timestamp":    hourFloor(s.CreatedAt),
		}
		for trait, value := range s.PersonalityTraits {
			metadata["trait_"+trait] = value
		}
		for aspect, value := range s.RelationshipContext {
			metadata["relationship_"+aspect] = value
		}

		doc := models.Document{
			ID:       fmt.Sprintf("identity_%d", s.ContactID),
			Content:  l.sanitize(s.Summary),
			Metadata: metadata,
		}
		if err := l.identity.Upsert(ctx, doc); err != nil {
			log.Printf("[Loader] skipping identity summary %s: %v", doc.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

// LoadRecentMessages indexes messages within the lookback window.
func (l *Loader) LoadRecentMessages(ctx context.Context, lookbackDays int) (int, error) {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -lookbackDays)

	msgs, names, err := l.store.Messages.GetRecent(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to read recent messages: %w", err)
	}

	count := 0
	for _, m := range msgs {
		contact := names[m.ContactID]
		sender := contact
		if m.IsFromMe {
			sender = "Me"
		}

		doc := models.Document{
			ID:      fmt.Sprintf("message_%d", m.ID),
			Content: l.sanitize(m.Text),
			Metadata: map[string]any{
				"content_type": models.ContentTypeMessage,
				"contact":      contact,
				"sender":       sender,
				"is_from_me":   m.IsFromMe,
				"created_at":   m.Date.Format(time.RFC3339),
				"timestamp":    hourFloor(m.Date),
			},
		}
		if err := l.messages.Upsert(ctx, doc); err != nil {
			log.Printf("[Loader] skipping message %s: %v", doc.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

// hourFloor returns the Unix timestamp floored to the hour. Indexed
// timestamps are hour-aligned so that the hour-step inclusion-set date
// filter can match them exactly.
func hourFloor(t time.Time) int64 {
	return t.Truncate(time.Hour).Unix()
}
