// ABOUTME: SQLite-backed semantic index with metadata filtering
// ABOUTME: Brute-force cosine ranking over per-collection document rows
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// Collection names for the three indices.
const (
	CollectionWeekly   = "weekly_summaries"
	CollectionIdentity = "identity_summaries"
	CollectionMessages = "messages"
)

// Index is one named collection of embedded documents. Queries rank every
// document in the collection by cosine similarity after metadata
// filtering; corpora here are small enough that brute force beats
// maintaining an ANN structure.
type Index struct {
	db         *sqlite.DB
	embedder   Embedder
	collection string
}

// New creates an index over the given collection name
func New(db *sqlite.DB, embedder Embedder, collection string) *Index {
	return &Index{db: db, embedder: embedder, collection: collection}
}

// Collection returns the collection name.
func (ix *Index) Collection() string {
	return ix.collection
}

// Upsert embeds a document's content and stores it. A document with an
// empty ID gets a generated one; deterministic IDs make reloads idempotent.
func (ix *Index) Upsert(ctx context.Context, doc models.Document) error {
	if doc.Content == "" {
		return fmt.Errorf("cannot index empty document content")
	}
	if doc.ID == "" {
		doc.ID = fmt.Sprintf("doc_%s", uuid.New().String())
	}

	vector, err := ix.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
	}

	metaJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
	}

	_, err = ix.db.Exec(`
		INSERT INTO index_documents (id, collection, content, metadata, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			vector = excluded.vector
	`, doc.ID, ix.collection, doc.Content, string(metaJSON), vectorToBlob(vector), time.Now())
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}
	return nil
}

// Query returns the k most similar documents whose metadata matches the
// filter. A nil filter matches everything.
func (ix *Index) Query(ctx context.Context, text string, k int, filter map[string]any) ([]models.Document, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVector, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := ix.db.Query(`
		SELECT id, content, metadata, vector
		FROM index_documents
		WHERE collection = ?
	`, ix.collection)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	type scored struct {
		doc   models.Document
		score float64
	}
	var candidates []scored

	for rows.Next() {
		var (
			doc      models.Document
			metaJSON sql.NullString
			blob     []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metaJSON, &blob); err != nil {
			return nil, err
		}

		doc.Metadata = map[string]any{}
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &doc.Metadata); err != nil {
				continue // unreadable metadata, skip rather than fail the query
			}
		}
		if !matchesFilter(doc.Metadata, filter) {
			continue
		}

		candidates = append(candidates, scored{
			doc:   doc,
			score: CosineSimilarity(queryVector, blobToVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	docs := make([]models.Document, len(candidates))
	for i, c := range candidates {
		docs[i] = c.doc
	}
	return docs, nil
}

// Count returns the number of documents in the collection.
func (ix *Index) Count() (int, error) {
	var count int
	err := ix.db.QueryRow(`
		SELECT COUNT(*) FROM index_documents WHERE collection = ?
	`, ix.collection).Scan(&count)
	return count, err
}

// Clear removes every document in the collection.
func (ix *Index) Clear() error {
	_, err := ix.db.Exec("DELETE FROM index_documents WHERE collection = ?", ix.collection)
	return err
}

// matchesFilter evaluates a metadata filter: field equality and
// inclusion-set predicates of the form {"field": {"$in": [v1, v2, ...]}}.
func matchesFilter(meta map[string]any, filter map[string]any) bool {
	for field, predicate := range filter {
		value, present := meta[field]
		if !present {
			return false
		}

		if obj, ok := predicate.(map[string]any); ok {
			set, ok := obj["$in"].([]any)
			if !ok {
				return false
			}
			found := false
			for _, candidate := range set {
				if valuesEqual(value, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}

		if !valuesEqual(value, predicate) {
			return false
		}
	}
	return true
}

// valuesEqual compares metadata values, treating all numeric types as
// equivalent: JSON round-trips store numbers as float64 while callers
// filter with ints.
func valuesEqual(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
