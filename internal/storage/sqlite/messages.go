// ABOUTME: Message storage operations for SQLite
// ABOUTME: Natural-key INSERT OR IGNORE dedupes repeated corpus extraction
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harper/correspondent/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Save inserts a message, ignoring duplicates on the natural key.
// Returns true when a new row was inserted.
func (s *MessageStore) Save(msg *models.Message) (bool, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return false, fmt.Errorf("message text must be non-empty")
	}

	result, err := s.db.Exec(`
		INSERT OR IGNORE INTO messages (chat_id, contact_id, text, message_date, is_from_me)
		VALUES (?, ?, ?, ?, ?)
	`, nullInt64(msg.ChatID), nullInt64(msg.ContactID), msg.Text, msg.Date, msg.IsFromMe)
	if err != nil {
		return false, fmt.Errorf("failed to insert message: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetForTimeframe returns a contact's messages with date in [start, end),
// ordered ascending by date
func (s *MessageStore) GetForTimeframe(contactID int64, start, end time.Time) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, contact_id, text, message_date, is_from_me, processed_in_summary
		FROM messages
		WHERE contact_id = ? AND message_date >= ? AND message_date < ?
		ORDER BY message_date ASC
	`, contactID, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// GetAllForContact returns a contact's full message history, ascending
func (s *MessageStore) GetAllForContact(contactID int64) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, contact_id, text, message_date, is_from_me, processed_in_summary
		FROM messages
		WHERE contact_id = ?
		ORDER BY message_date ASC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// GetRecent returns all messages newer than the cutoff, descending,
// joined with the owning contact's display name
func (s *MessageStore) GetRecent(cutoff time.Time) ([]models.Message, map[int64]string, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.chat_id, m.contact_id, m.text, m.message_date, m.is_from_me,
			m.processed_in_summary, COALESCE(c.display_name, c.identifier)
		FROM messages m
		JOIN contacts c ON m.contact_id = c.id
		WHERE m.message_date >= ?
		ORDER BY m.message_date DESC
	`, cutoff)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make(map[int64]string)
	var msgs []models.Message
	for rows.Next() {
		var (
			m      models.Message
			chatID sql.NullInt64
			name   string
		)
		if err := rows.Scan(&m.ID, &chatID, &m.ContactID, &m.Text, &m.Date,
			&m.IsFromMe, &m.Processed, &name); err != nil {
			return nil, nil, err
		}
		m.ChatID = chatID.Int64
		names[m.ContactID] = name
		msgs = append(msgs, m)
	}
	return msgs, names, rows.Err()
}

// CountForContact returns a contact's total message count
func (s *MessageStore) CountForContact(contactID int64) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM messages WHERE contact_id = ?", contactID).Scan(&n)
	return n, err
}

// EarliestDate returns the oldest message date for a contact.
// Returns the zero time when the contact has no messages.
// MIN/MAX aggregates lose the column's declared type under this driver,
// so the endpoints are read via ORDER BY instead.
func (s *MessageStore) EarliestDate(contactID int64) (time.Time, error) {
	var date time.Time
	err := s.db.QueryRow(`
		SELECT message_date FROM messages
		WHERE contact_id = ?
		ORDER BY message_date ASC
		LIMIT 1
	`, contactID).Scan(&date)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// LastDate returns the newest message date across the whole corpus.
// Returns the zero time for an empty corpus.
func (s *MessageStore) LastDate() (time.Time, error) {
	var date time.Time
	err := s.db.QueryRow(`
		SELECT message_date FROM messages
		ORDER BY message_date DESC
		LIMIT 1
	`).Scan(&date)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// GetUnprocessed returns a contact's messages not yet folded into a summary
func (s *MessageStore) GetUnprocessed(contactID int64) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, chat_id, contact_id, text, message_date, is_from_me, processed_in_summary
		FROM messages
		WHERE contact_id = ? AND processed_in_summary = FALSE
		ORDER BY message_date ASC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanMessages(rows)
}

// MarkProcessed flips the processed flag for the given message ids
func (s *MessageStore) MarkProcessed(ids []int64) error {
	for _, id := range ids {
		if _, err := s.db.Exec(
			"UPDATE messages SET processed_in_summary = TRUE WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to mark message %d processed: %w", id, err)
		}
	}
	return nil
}

// scanMessages scans rows into a slice of Message
func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	var msgs []models.Message
	for rows.Next() {
		var (
			m         models.Message
			chatID    sql.NullInt64
			contactID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &chatID, &contactID, &m.Text, &m.Date,
			&m.IsFromMe, &m.Processed); err != nil {
			return nil, err
		}
		m.ChatID = chatID.Int64
		m.ContactID = contactID.Int64
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// nullInt64 converts a zero id to sql NULL
func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
