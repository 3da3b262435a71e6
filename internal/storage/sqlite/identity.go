// ABOUTME: Identity summary storage operations for SQLite
// ABOUTME: Append-only versioned history; current profile is the newest row
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/correspondent/internal/models"
)

// IdentitySummaryStore handles identity profile persistence
type IdentitySummaryStore struct {
	db *DB
}

// NewIdentitySummaryStore creates a new IdentitySummaryStore
func NewIdentitySummaryStore(db *DB) *IdentitySummaryStore {
	return &IdentitySummaryStore{db: db}
}

// Save appends a new identity summary version. History is never rewritten.
func (s *IdentitySummaryStore) Save(is *models.IdentitySummary) error {
	traits, err := json.Marshal(is.PersonalityTraits)
	if err != nil {
		return fmt.Errorf("failed to marshal personality traits: %w", err)
	}
	rel, err := json.Marshal(is.RelationshipContext)
	if err != nil {
		return fmt.Errorf("failed to marshal relationship context: %w", err)
	}
	topics, err := json.Marshal(is.CommonTopics)
	if err != nil {
		return fmt.Errorf("failed to marshal common topics: %w", err)
	}
	confidence, err := json.Marshal(is.ConfidenceScores)
	if err != nil {
		return fmt.Errorf("failed to marshal confidence scores: %w", err)
	}

	createdAt := is.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO identity_summaries
			(contact_id, summary_text, personality_traits, relationship_context, common_topics, confidence_scores, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, is.ContactID, is.Summary, string(traits), string(rel), string(topics), string(confidence), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert identity summary: %w", err)
	}
	return nil
}

// GetLatest returns the newest identity summary for a contact, nil if none
func (s *IdentitySummaryStore) GetLatest(contactID int64) (*models.IdentitySummary, error) {
	row := s.db.QueryRow(`
		SELECT id, contact_id, summary_text, personality_traits, relationship_context,
			common_topics, confidence_scores, created_at
		FROM identity_summaries
		WHERE contact_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, contactID)

	is, err := scanIdentity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return is, err
}

// History returns every identity version for a contact, newest first
func (s *IdentitySummaryStore) History(contactID int64) ([]models.IdentitySummary, error) {
	rows, err := s.db.Query(`
		SELECT id, contact_id, summary_text, personality_traits, relationship_context,
			common_topics, confidence_scores, created_at
		FROM identity_summaries
		WHERE contact_id = ?
		ORDER BY created_at DESC, id DESC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []models.IdentitySummary
	for rows.Next() {
		is := &models.IdentitySummary{}
		var traits, rel, topics, confidence sql.NullString
		if err := rows.Scan(&is.ID, &is.ContactID, &is.Summary, &traits, &rel,
			&topics, &confidence, &is.CreatedAt); err != nil {
			return nil, err
		}
		unmarshalIdentityJSON(is, traits, rel, topics, confidence)
		history = append(history, *is)
	}
	return history, rows.Err()
}

// Latest returns the newest identity summary per contact across the corpus,
// joined with contact names
func (s *IdentitySummaryStore) Latest() ([]models.IdentitySummary, map[int64]string, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.contact_id, i.summary_text, i.personality_traits, i.relationship_context,
			i.common_topics, i.confidence_scores, i.created_at,
			COALESCE(c.display_name, c.identifier)
		FROM identity_summaries i
		JOIN contacts c ON i.contact_id = c.id
		WHERE i.id = (
			SELECT id FROM identity_summaries
			WHERE contact_id = i.contact_id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		ORDER BY i.created_at DESC
	`)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make(map[int64]string)
	var summaries []models.IdentitySummary
	for rows.Next() {
		is := &models.IdentitySummary{}
		var traits, rel, topics, confidence sql.NullString
		var name string
		if err := rows.Scan(&is.ID, &is.ContactID, &is.Summary, &traits, &rel,
			&topics, &confidence, &is.CreatedAt, &name); err != nil {
			return nil, nil, err
		}
		unmarshalIdentityJSON(is, traits, rel, topics, confidence)
		names[is.ContactID] = name
		summaries = append(summaries, *is)
	}
	return summaries, names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIdentity(row rowScanner) (*models.IdentitySummary, error) {
	is := &models.IdentitySummary{}
	var traits, rel, topics, confidence sql.NullString

	err := row.Scan(&is.ID, &is.ContactID, &is.Summary, &traits, &rel,
		&topics, &confidence, &is.CreatedAt)
	if err != nil {
		return nil, err
	}

	unmarshalIdentityJSON(is, traits, rel, topics, confidence)
	return is, nil
}

// unmarshalIdentityJSON decodes the JSON columns, tolerating malformed or
// missing values by leaving empty maps in place
func unmarshalIdentityJSON(is *models.IdentitySummary, traits, rel, topics, confidence sql.NullString) {
	is.PersonalityTraits = map[string]float64{}
	is.RelationshipContext = map[string]float64{}
	is.CommonTopics = []string{}
	is.ConfidenceScores = map[string]float64{}

	if traits.Valid && traits.String != "" {
		_ = json.Unmarshal([]byte(traits.String), &is.PersonalityTraits)
	}
	if rel.Valid && rel.String != "" {
		_ = json.Unmarshal([]byte(rel.String), &is.RelationshipContext)
	}
	if topics.Valid && topics.String != "" {
		_ = json.Unmarshal([]byte(topics.String), &is.CommonTopics)
	}
	if confidence.Valid && confidence.String != "" {
		_ = json.Unmarshal([]byte(confidence.String), &is.ConfidenceScores)
	}
}
