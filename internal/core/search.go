// ABOUTME: Hierarchical retrieval across the three semantic indices
// ABOUTME: Fault-isolated lookups with contact and date-range filters
package core

import (
	"context"
	"log"
	"time"

	"github.com/harper/correspondent/internal/index"
	"github.com/harper/correspondent/internal/models"
)

// maxFilterValues caps the inclusion-set cardinality the index accepts.
// Hour-step enumeration hits the cap at roughly 20 days; longer ranges
// are truncated from the tail.
const maxFilterValues = 500

// DefaultSearchK is the per-index result count when the caller passes 0.
const DefaultSearchK = 3

// SearchOptions narrow a search. Zero values mean unfiltered.
type SearchOptions struct {
	Contact   string
	StartDate time.Time
	EndDate   time.Time
	K         int
}

// Searcher queries weekly summaries, identity profiles, and raw messages
// in one pass. Each index is queried independently: a failing index
// contributes an empty slot instead of failing the whole search.
type Searcher struct {
	weekly   *index.Index
	identity *index.Index
	messages *index.Index
	privacy  *PrivacyFilter
}

// NewSearcher creates a searcher over the loader's three indices. A nil
// privacy filter disables the contact allow-list check.
func NewSearcher(loader *index.Loader, privacy *PrivacyFilter) *Searcher {
	return &Searcher{
		weekly:   loader.Weekly(),
		identity: loader.Identity(),
		messages: loader.Messages(),
		privacy:  privacy,
	}
}

// Search runs the three lookups: weekly summaries at k, the single best
// identity profile (contact filter only, profiles are not time-scoped),
// and raw messages at 2k for context depth.
func (s *Searcher) Search(ctx context.Context, query string, opts SearchOptions) (*models.SearchResults, error) {
	k := opts.K
	if k <= 0 {
		k = DefaultSearchK
	}

	if s.privacy != nil && opts.Contact != "" && !s.privacy.ContactAllowed(opts.Contact) {
		log.Printf("[Searcher] contact %q not in allow-list, returning nothing", opts.Contact)
		return &models.SearchResults{}, nil
	}

	fullFilter := buildFilter(opts.Contact, opts.StartDate, opts.EndDate)
	contactFilter := buildFilter(opts.Contact, time.Time{}, time.Time{})

	results := &models.SearchResults{}

	if docs, err := s.weekly.Query(ctx, query, k, fullFilter); err != nil {
		log.Printf("[Searcher] weekly summary lookup failed: %v", err)
	} else {
		results.Summaries = docs
	}

	if docs, err := s.identity.Query(ctx, query, 1, contactFilter); err != nil {
		log.Printf("[Searcher] identity lookup failed: %v", err)
	} else {
		results.Identity = docs
	}

	if docs, err := s.messages.Query(ctx, query, k*2, fullFilter); err != nil {
		log.Printf("[Searcher] message lookup failed: %v", err)
	} else {
		results.Messages = docs
	}

	return results, nil
}

// buildFilter translates contact and date-range constraints into the
// index's filter language. The index has no native range predicate, so a
// date range becomes an explicit inclusion set of hour-aligned Unix
// timestamps, capped at maxFilterValues with tail truncation.
func buildFilter(contact string, start, end time.Time) map[string]any {
	filter := map[string]any{}
	if contact != "" {
		filter["contact"] = contact
	}
	if !start.IsZero() && !end.IsZero() {
		filter["timestamp"] = map[string]any{"$in": hourlyTimestamps(start, end)}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

// hourlyTimestamps enumerates hour-aligned Unix timestamps from start to
// end inclusive.
func hourlyTimestamps(start, end time.Time) []any {
	var values []any
	for t := start.Truncate(time.Hour); !t.After(end); t = t.Add(time.Hour) {
		if len(values) == maxFilterValues {
			break
		}
		values = append(values, t.Unix())
	}
	return values
}
