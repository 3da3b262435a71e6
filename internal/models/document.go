// ABOUTME: Document is the unit stored in and returned by semantic indices
// ABOUTME: Metadata carries denormalized contact/timestamp copies for filtering
package models

// Metadata content_type values used across the three indices.
const (
	ContentTypeWeeklySummary   = "weekly_summary"
	ContentTypeIdentitySummary = "identity_summary"
	ContentTypeMessage         = "message"
)

// Document is a piece of indexed text plus filterable metadata. Every
// document carries a denormalized timestamp/contact copy so that filtering
// never needs a join back to the relational store.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"page_content"`
	Metadata map[string]any `json:"metadata"`
}

// SearchResults is the merged bundle returned by a hierarchical search:
// one ranked slice per index, independently populated.
type SearchResults struct {
	Summaries []Document `json:"summaries"`
	Identity  []Document `json:"identity"`
	Messages  []Document `json:"messages"`
}

// Empty reports whether no index returned anything.
func (r *SearchResults) Empty() bool {
	return len(r.Summaries) == 0 && len(r.Identity) == 0 && len(r.Messages) == 0
}
