// ABOUTME: Contact and chat storage operations for SQLite
// ABOUTME: Contacts are created on first sighting and never deleted
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/correspondent/internal/models"
)

// ContactStore handles contact and chat persistence
type ContactStore struct {
	db *DB
}

// NewContactStore creates a new ContactStore
func NewContactStore(db *DB) *ContactStore {
	return &ContactStore{db: db}
}

// Upsert inserts a contact on first sighting. The identifier is immutable;
// the display name is refined only when the new value is non-empty and the
// stored one is missing or equal to the bare identifier.
func (s *ContactStore) Upsert(identifier, displayName string) (int64, error) {
	_, err := s.db.Exec(`
		INSERT INTO contacts (identifier, display_name)
		VALUES (?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			display_name = CASE
				WHEN excluded.display_name != '' AND (contacts.display_name IS NULL
					OR contacts.display_name = '' OR contacts.display_name = contacts.identifier)
				THEN excluded.display_name
				ELSE contacts.display_name
			END
	`, identifier, displayName)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert contact: %w", err)
	}

	var id int64
	err = s.db.QueryRow("SELECT id FROM contacts WHERE identifier = ?", identifier).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to look up contact id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a contact by surrogate id, nil if not found
func (s *ContactStore) GetByID(id int64) (*models.Contact, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT id, identifier, COALESCE(display_name, '')
		FROM contacts WHERE id = ?
	`, id))
}

// GetByIdentifier retrieves a contact by its natural key, nil if not found
func (s *ContactStore) GetByIdentifier(identifier string) (*models.Contact, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT id, identifier, COALESCE(display_name, '')
		FROM contacts WHERE identifier = ?
	`, identifier))
}

// GetByName retrieves a contact by display name, nil if not found
func (s *ContactStore) GetByName(name string) (*models.Contact, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT id, identifier, COALESCE(display_name, '')
		FROM contacts WHERE display_name = ?
	`, name))
}

// All returns every contact ordered by display name
func (s *ContactStore) All() ([]models.Contact, error) {
	rows, err := s.db.Query(`
		SELECT id, identifier, COALESCE(display_name, '')
		FROM contacts ORDER BY display_name, identifier
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Identifier, &c.DisplayName); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpsertChat inserts a chat thread if unseen and returns its id
func (s *ContactStore) UpsertChat(chatIdentifier string) (int64, error) {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO chats (chat_identifier) VALUES (?)
	`, chatIdentifier)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert chat: %w", err)
	}

	var id int64
	err = s.db.QueryRow("SELECT id FROM chats WHERE chat_identifier = ?", chatIdentifier).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to look up chat id: %w", err)
	}
	return id, nil
}

func (s *ContactStore) scanOne(row *sql.Row) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.Identifier, &c.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
