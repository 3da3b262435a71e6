// ABOUTME: Contact represents a unique correspondent in the message corpus
// ABOUTME: Identified by a stable phone number or handle, never deleted
package models

import "time"

// Contact is a correspondent identified by a stable handle.
// The identifier is immutable once created; the display name may be
// refined later when a richer source provides a real name.
type Contact struct {
	ID          int64  `json:"id"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name"`
}

// Name returns the best human-readable name for the contact.
func (c *Contact) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Identifier
}

// Message is a single message belonging to one chat and (at most) one
// contact. Immutable once inserted except for the Processed flag.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	ContactID int64     `json:"contact_id"` // 0 when the sender is unresolved
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	IsFromMe  bool      `json:"is_from_me"`
	Processed bool      `json:"processed_in_summary"`
}

// Timestamp returns the message date for time-ordered sampling.
func (m Message) Timestamp() time.Time {
	return m.Date
}
