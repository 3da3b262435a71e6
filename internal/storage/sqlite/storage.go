// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Single owner of the database connection for aggregators and CLI
package sqlite

import "fmt"

// Storage bundles every table store over one database connection.
// The connection is exclusively owned by whichever aggregator or
// extractor currently holds the Storage; no concurrent writers.
type Storage struct {
	db       *DB
	Contacts *ContactStore
	Messages *MessageStore
	Tweets   *TweetStore
	Weekly   *WeeklySummaryStore
	Identity *IdentitySummaryStore
}

// NewStorage opens storage at the default XDG path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath opens storage at a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		Contacts: NewContactStore(db),
		Messages: NewMessageStore(db),
		Tweets:   NewTweetStore(db),
		Weekly:   NewWeeklySummaryStore(db),
		Identity: NewIdentitySummaryStore(db),
	}
}

// DB returns the underlying database for the semantic index
func (s *Storage) DB() *DB {
	return s.db
}

// Optimize reclaims space after a large aggregation run
func (s *Storage) Optimize() error {
	return s.db.Optimize()
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}
