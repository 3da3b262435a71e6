// ABOUTME: Per-contact weekly summarization over Monday-aligned windows
// ABOUTME: Walks each contact's own timeline from first message to today
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harper/correspondent/internal/llm"
	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// Summarizer is the inference surface the aggregators need. Satisfied by
// *llm.Gateway; tests inject fakes.
type Summarizer interface {
	Summarize(ctx context.Context, system, prompt string, required []string) (map[string]any, string, error)
}

// WeeklyAggregator generates one summary row per contact per active week.
// Week windows are Monday-aligned and derived from each contact's own
// earliest message, not a global epoch, so windows never overlap and
// always advance by exactly 7 days.
type WeeklyAggregator struct {
	store   *sqlite.Storage
	gateway Summarizer

	// SkipExisting skips (contact, week) pairs that already have a
	// summary row. When false every invocation appends a new row.
	SkipExisting bool

	now func() time.Time
}

// NewWeeklyAggregator creates an aggregator. Existing weeks are skipped
// by default.
func NewWeeklyAggregator(store *sqlite.Storage, gateway Summarizer) *WeeklyAggregator {
	return &WeeklyAggregator{
		store:        store,
		gateway:      gateway,
		SkipExisting: true,
		now:          time.Now,
	}
}

// Run processes every contact. Per-contact failures are logged and do not
// stop the batch.
func (a *WeeklyAggregator) Run(ctx context.Context) error {
	contacts, err := a.store.Contacts.All()
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	total := 0
	for _, contact := range contacts {
		n, err := a.ProcessContact(ctx, &contact)
		if err != nil {
			log.Printf("[WeeklyAggregator] contact %s: %v", contact.Name(), err)
			continue
		}
		total += n
	}
	log.Printf("[WeeklyAggregator] generated %d weekly summaries", total)
	return nil
}

// ProcessContact walks the contact's weeks and returns how many summaries
// were written. Weeks with no messages are skipped; a week whose model
// response fails to parse is logged and left for a later run.
func (a *WeeklyAggregator) ProcessContact(ctx context.Context, contact *models.Contact) (int, error) {
	earliest, err := a.store.Messages.EarliestDate(contact.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to find earliest message: %w", err)
	}
	if earliest.IsZero() {
		return 0, nil
	}

	today := a.now()
	written := 0

	for weekStart := FloorToMonday(earliest); !weekStart.After(today); weekStart = weekStart.AddDate(0, 0, 7) {
		wrote, err := a.processWeek(ctx, contact, weekStart)
		if err != nil {
			return written, err
		}
		if wrote {
			written++
		}
	}
	return written, nil
}

func (a *WeeklyAggregator) processWeek(ctx context.Context, contact *models.Contact, weekStart time.Time) (bool, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	if a.SkipExisting {
		exists, err := a.store.Weekly.Exists(contact.ID, weekStart)
		if err != nil {
			return false, fmt.Errorf("failed to check existing summary: %w", err)
		}
		if exists {
			return false, nil
		}
	}

	msgs, err := a.store.Messages.GetForTimeframe(contact.ID, weekStart, weekEnd)
	if err != nil {
		return false, fmt.Errorf("failed to load week messages: %w", err)
	}
	if len(msgs) == 0 {
		return false, nil
	}

	sampled := Sample(msgs, DefaultSampleCap)
	prompt := llm.BuildWeeklyPrompt(contact.Name(), weekStart.Format("2006-01-02"), sampled)

	parsed, _, err := a.gateway.Summarize(ctx, llm.WeeklySystem, prompt, llm.WeeklyFields)
	if err != nil {
		var extractErr *llm.ExtractError
		if errors.As(err, &extractErr) {
			// Unparseable week: a later run retries it because the
			// existence check re-derives from raw data
			log.Printf("[WeeklyAggregator] %s week %s: unparseable response, skipping: %v",
				contact.Name(), weekStart.Format("2006-01-02"), err)
			return false, nil
		}
		return false, err
	}

	summaryText, _ := parsed["weekly_summary"].(string)
	if summaryText == "" {
		log.Printf("[WeeklyAggregator] %s week %s: empty weekly_summary, skipping",
			contact.Name(), weekStart.Format("2006-01-02"))
		return false, nil
	}

	err = a.store.Weekly.Save(&models.WeeklySummary{
		ContactID: contact.ID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Summary:   summaryText,
	})
	if err != nil {
		return false, fmt.Errorf("failed to save weekly summary: %w", err)
	}

	ids := make([]int64, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	if err := a.store.Messages.MarkProcessed(ids); err != nil {
		log.Printf("[WeeklyAggregator] failed to mark messages processed: %v", err)
	}

	log.Printf("[WeeklyAggregator] summarized %s week %s (%d messages)",
		contact.Name(), weekStart.Format("2006-01-02"), len(msgs))
	return true, nil
}

// FloorToMonday returns the Monday at or before t, at midnight in t's
// location.
func FloorToMonday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
