// ABOUTME: Pushes summary rows from the relational store to Charm Cloud
package charm

import (
	"fmt"
	"log"

	"github.com/harper/correspondent/internal/storage/sqlite"
)

// BackupStats reports what a backup run pushed.
type BackupStats struct {
	Weekly   int
	Identity int
}

// BackupSummaries copies every weekly summary and identity profile
// version to the KV store. Keys are deterministic so re-running
// overwrites rather than duplicates.
func BackupSummaries(c *Client, store *sqlite.Storage) (*BackupStats, error) {
	stats := &BackupStats{}

	weekly, _, err := store.Weekly.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read weekly summaries: %w", err)
	}
	for _, w := range weekly {
		if err := c.SetJSON(WeeklyKey(w.ContactID, w.WeekStart), w); err != nil {
			log.Printf("[Backup] failed to push weekly summary: %v", err)
			continue
		}
		stats.Weekly++
	}

	contacts, err := store.Contacts.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	for _, contact := range contacts {
		history, err := store.Identity.History(contact.ID)
		if err != nil {
			log.Printf("[Backup] failed to read profiles for %s: %v", contact.Name(), err)
			continue
		}
		for _, version := range history {
			if err := c.SetJSON(IdentityKey(version.ContactID, version.ID), version); err != nil {
				log.Printf("[Backup] failed to push profile: %v", err)
				continue
			}
			stats.Identity++
		}
	}

	if err := c.Sync(); err != nil {
		return stats, fmt.Errorf("cloud sync failed: %w", err)
	}
	log.Printf("[Backup] pushed %d weekly summaries, %d profile versions", stats.Weekly, stats.Identity)
	return stats, nil
}
