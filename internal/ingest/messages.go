// ABOUTME: Extracts chats, contacts, and messages from a Messages.app database
// ABOUTME: Copies rows into the relational store with natural-key dedup
package ingest

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
	_ "modernc.org/sqlite"
)

// ImportStats reports what an extraction run moved.
type ImportStats struct {
	Chats    int
	Contacts int
	Inserted int
	Skipped  int
}

// MessageImporter copies a Messages.app chat database into the relational
// store. Re-running over the same source is safe: the message natural key
// dedups on insert.
type MessageImporter struct {
	store *sqlite.Storage
}

// NewMessageImporter creates an importer over the store.
func NewMessageImporter(store *sqlite.Storage) *MessageImporter {
	return &MessageImporter{store: store}
}

// DefaultSourcePath returns the standard Messages.app database location.
func DefaultSourcePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chat.db"
	}
	return filepath.Join(home, "Library", "Messages", "chat.db")
}

// Import extracts everything from the source database. A missing source
// is an error: there is nothing to ingest without it.
func (m *MessageImporter) Import(sourcePath string) (*ImportStats, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source database not found at %s: %w", sourcePath, err)
	}

	source, err := sql.Open("sqlite", "file:"+sourcePath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	stats := &ImportStats{}

	chatIDs, err := m.extractChats(source, stats)
	if err != nil {
		return nil, fmt.Errorf("chat extraction failed: %w", err)
	}
	log.Printf("[MessageImporter] extracted %d chats", stats.Chats)

	contactIDs, err := m.extractContacts(source, stats)
	if err != nil {
		return nil, fmt.Errorf("contact extraction failed: %w", err)
	}
	log.Printf("[MessageImporter] extracted %d contacts", stats.Contacts)

	if err := m.extractMessages(source, chatIDs, contactIDs, stats); err != nil {
		return nil, fmt.Errorf("message extraction failed: %w", err)
	}
	log.Printf("[MessageImporter] inserted %d messages, skipped %d duplicates",
		stats.Inserted, stats.Skipped)

	return stats, nil
}

// extractChats copies chat threads, returning identifier → store chat ID.
func (m *MessageImporter) extractChats(source *sql.DB, stats *ImportStats) (map[string]int64, error) {
	rows, err := source.Query("SELECT DISTINCT chat_identifier FROM chat")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[string]int64)
	for rows.Next() {
		var identifier sql.NullString
		if err := rows.Scan(&identifier); err != nil {
			return nil, err
		}
		if !identifier.Valid || identifier.String == "" {
			continue
		}

		id, err := m.store.Contacts.UpsertChat(identifier.String)
		if err != nil {
			return nil, err
		}
		ids[identifier.String] = id
		stats.Chats++
	}
	return ids, rows.Err()
}

// extractContacts copies handles, preferring the address book name over
// the raw handle. Returns handle → store contact ID.
func (m *MessageImporter) extractContacts(source *sql.DB, stats *ImportStats) (map[string]int64, error) {
	rows, err := source.Query(`
		SELECT DISTINCT id, COALESCE(uncanonicalized_id, id)
		FROM handle
		WHERE id IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[string]int64)
	for rows.Next() {
		var handle, display string
		if err := rows.Scan(&handle, &display); err != nil {
			return nil, err
		}
		if strings.TrimSpace(handle) == "" {
			continue
		}

		id, err := m.store.Contacts.Upsert(handle, display)
		if err != nil {
			return nil, err
		}
		ids[handle] = id
		stats.Contacts++
	}
	return ids, rows.Err()
}

// extractMessages copies messages, converting the source's nanosecond
// offset from the 2001-01-01 epoch into wall-clock time.
func (m *MessageImporter) extractMessages(source *sql.DB, chatIDs, contactIDs map[string]int64, stats *ImportStats) error {
	rows, err := source.Query(`
		SELECT
			chat.chat_identifier,
			handle.id,
			message.text,
			datetime(message.date/1000000000 + strftime('%s', '2001-01-01'), 'unixepoch'),
			message.is_from_me
		FROM message
		JOIN chat_message_join ON chat_message_join.message_id = message.ROWID
		JOIN chat ON chat.ROWID = chat_message_join.chat_id
		LEFT JOIN handle ON message.handle_id = handle.ROWID
		WHERE message.text IS NOT NULL
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			chatIdentifier sql.NullString
			handle         sql.NullString
			text           string
			dateStr        string
			isFromMe       bool
		)
		if err := rows.Scan(&chatIdentifier, &handle, &text, &dateStr, &isFromMe); err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02 15:04:05", dateStr)
		if err != nil {
			log.Printf("[MessageImporter] skipping message with bad date %q: %v", dateStr, err)
			continue
		}

		msg := &models.Message{
			ChatID:    chatIDs[chatIdentifier.String],
			ContactID: contactIDs[handle.String],
			Text:      text,
			Date:      date,
			IsFromMe:  isFromMe,
		}

		inserted, err := m.store.Messages.Save(msg)
		if err != nil {
			log.Printf("[MessageImporter] skipping message: %v", err)
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
	}
	return rows.Err()
}
