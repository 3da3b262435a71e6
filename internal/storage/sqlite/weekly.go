// ABOUTME: Weekly summary storage operations for SQLite
// ABOUTME: Inserts are append-only; existence checks support skip-existing runs
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harper/correspondent/internal/models"
)

// WeeklySummaryStore handles weekly summary persistence
type WeeklySummaryStore struct {
	db *DB
}

// NewWeeklySummaryStore creates a new WeeklySummaryStore
func NewWeeklySummaryStore(db *DB) *WeeklySummaryStore {
	return &WeeklySummaryStore{db: db}
}

// Save inserts a weekly summary row. Plain insert, never upsert: repeated
// aggregation of the same window appends duplicates unless the caller
// checks Exists first.
func (s *WeeklySummaryStore) Save(w *models.WeeklySummary) error {
	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO weekly_summaries (contact_id, week_start_date, week_end_date, summary_text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ContactID, w.WeekStart, w.WeekEnd, w.Summary, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert weekly summary: %w", err)
	}
	return nil
}

// Exists reports whether a summary row already exists for (contact, week)
func (s *WeeklySummaryStore) Exists(contactID int64, weekStart time.Time) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM weekly_summaries
		WHERE contact_id = ? AND week_start_date = ?
	`, contactID, weekStart).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetForContact returns all weekly summaries for a contact in week order,
// oldest first
func (s *WeeklySummaryStore) GetForContact(contactID int64) ([]models.WeeklySummary, error) {
	rows, err := s.db.Query(`
		SELECT id, contact_id, week_start_date, week_end_date, summary_text, created_at
		FROM weekly_summaries
		WHERE contact_id = ?
		ORDER BY week_start_date ASC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanWeekly(rows)
}

// All returns every weekly summary joined with the contact name, newest first
func (s *WeeklySummaryStore) All() ([]models.WeeklySummary, map[int64]string, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.contact_id, w.week_start_date, w.week_end_date, w.summary_text,
			w.created_at, COALESCE(c.display_name, c.identifier)
		FROM weekly_summaries w
		JOIN contacts c ON w.contact_id = c.id
		ORDER BY w.created_at DESC
	`)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make(map[int64]string)
	var summaries []models.WeeklySummary
	for rows.Next() {
		var (
			w    models.WeeklySummary
			name string
		)
		if err := rows.Scan(&w.ID, &w.ContactID, &w.WeekStart, &w.WeekEnd,
			&w.Summary, &w.CreatedAt, &name); err != nil {
			return nil, nil, err
		}
		names[w.ContactID] = name
		summaries = append(summaries, w)
	}
	return summaries, names, rows.Err()
}

// CountForContact returns the number of summary rows for a contact
func (s *WeeklySummaryStore) CountForContact(contactID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM weekly_summaries WHERE contact_id = ?", contactID).Scan(&n)
	return n, err
}

func scanWeekly(rows *sql.Rows) ([]models.WeeklySummary, error) {
	var summaries []models.WeeklySummary
	for rows.Next() {
		var w models.WeeklySummary
		if err := rows.Scan(&w.ID, &w.ContactID, &w.WeekStart, &w.WeekEnd,
			&w.Summary, &w.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, w)
	}
	return summaries, rows.Err()
}
