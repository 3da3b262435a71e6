// ABOUTME: Summary models for weekly digests and evolving identity profiles
// ABOUTME: Numeric maps are persisted as JSON columns in the relational store
package models

import "time"

// WeeklySummary is a per-contact digest of one Monday-aligned 7-day window.
type WeeklySummary struct {
	ID        int64     `json:"id"`
	ContactID int64     `json:"contact_id"`
	WeekStart time.Time `json:"week_start_date"`
	WeekEnd   time.Time `json:"week_end_date"`
	Summary   string    `json:"summary_text"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentitySummary is one version of a contact's evolving profile.
// Versions are append-only; the current profile is the newest row.
type IdentitySummary struct {
	ID                  int64              `json:"id"`
	ContactID           int64              `json:"contact_id"`
	Summary             string             `json:"summary_text"`
	PersonalityTraits   map[string]float64 `json:"personality_traits"`
	RelationshipContext map[string]float64 `json:"relationship_context"`
	CommonTopics        []string           `json:"common_topics"`
	ConfidenceScores    map[string]float64 `json:"confidence_scores"`
	CreatedAt           time.Time          `json:"created_at"`
}

// TweetIdentitySummary is the Twitter-corpus variant of an identity
// profile: interests replace relationship context.
type TweetIdentitySummary struct {
	ID                int64              `json:"id"`
	Summary           string             `json:"summary_text"`
	PersonalityTraits map[string]float64 `json:"personality_traits"`
	Interests         map[string]float64 `json:"interests"`
	CommonTopics      []string           `json:"common_topics"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	CreatedAt         time.Time          `json:"created_at"`
}

// TweetWeeklySummary is a weekly digest of Twitter activity.
type TweetWeeklySummary struct {
	ID                int64          `json:"id"`
	WeekStart         time.Time      `json:"week_start_date"`
	WeekEnd           time.Time      `json:"week_end_date"`
	Summary           string         `json:"summary_text"`
	TopicsDiscussed   []string       `json:"topics_discussed"`
	EngagementMetrics map[string]any `json:"engagement_metrics"`
	CreatedAt         time.Time      `json:"created_at"`
}
