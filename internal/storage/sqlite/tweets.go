// ABOUTME: Tweet corpus and tweet summary storage operations for SQLite
// ABOUTME: Tweet variant of the message pipeline for imported Twitter archives
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/correspondent/internal/models"
)

// TweetStore handles tweet persistence and tweet-variant summaries
type TweetStore struct {
	db *DB
}

// NewTweetStore creates a new TweetStore
func NewTweetStore(db *DB) *TweetStore {
	return &TweetStore{db: db}
}

// Save upserts a tweet keyed by its tweet_id
func (s *TweetStore) Save(t *models.Tweet) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO tweets
			(tweet_id, text, created_at, is_retweet, is_reply, reply_to_tweet_id,
			 reply_to_user_id, retweet_count, like_count, quote_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.TweetID, t.Text, t.CreatedAt, t.IsRetweet, t.IsReply,
		nullString(t.ReplyToTweetID), nullString(t.ReplyToUserID),
		t.RetweetCount, t.LikeCount, t.QuoteCount)
	if err != nil {
		return fmt.Errorf("failed to save tweet: %w", err)
	}
	return nil
}

// All returns every tweet ordered ascending by creation time
func (s *TweetStore) All() ([]models.Tweet, error) {
	return s.queryTweets(`
		SELECT id, tweet_id, text, created_at, is_retweet, is_reply,
			reply_to_tweet_id, reply_to_user_id, retweet_count, like_count,
			quote_count, processed_in_summary
		FROM tweets ORDER BY created_at ASC
	`)
}

// GetForTimeframe returns tweets with created_at in [start, end), ascending
func (s *TweetStore) GetForTimeframe(start, end time.Time) ([]models.Tweet, error) {
	return s.queryTweets(`
		SELECT id, tweet_id, text, created_at, is_retweet, is_reply,
			reply_to_tweet_id, reply_to_user_id, retweet_count, like_count,
			quote_count, processed_in_summary
		FROM tweets
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC
	`, start, end)
}

// SaveIdentity appends a tweet identity summary version
func (s *TweetStore) SaveIdentity(is *models.TweetIdentitySummary) error {
	traits, err := json.Marshal(is.PersonalityTraits)
	if err != nil {
		return fmt.Errorf("failed to marshal personality traits: %w", err)
	}
	interests, err := json.Marshal(is.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
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
		INSERT INTO tweet_identity_summaries
			(summary_text, personality_traits, interests, common_topics, confidence_scores, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, is.Summary, string(traits), string(interests), string(topics), string(confidence), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert tweet identity summary: %w", err)
	}
	return nil
}

// GetLatestIdentity returns the newest tweet identity summary, nil if none
func (s *TweetStore) GetLatestIdentity() (*models.TweetIdentitySummary, error) {
	is := &models.TweetIdentitySummary{}
	var traits, interests, topics, confidence sql.NullString

	err := s.db.QueryRow(`
		SELECT id, summary_text, personality_traits, interests, common_topics,
			confidence_scores, created_at
		FROM tweet_identity_summaries
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&is.ID, &is.Summary, &traits, &interests, &topics, &confidence, &is.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	is.PersonalityTraits = map[string]float64{}
	is.Interests = map[string]float64{}
	is.CommonTopics = []string{}
	is.ConfidenceScores = map[string]float64{}
	if traits.Valid {
		_ = json.Unmarshal([]byte(traits.String), &is.PersonalityTraits)
	}
	if interests.Valid {
		_ = json.Unmarshal([]byte(interests.String), &is.Interests)
	}
	if topics.Valid {
		_ = json.Unmarshal([]byte(topics.String), &is.CommonTopics)
	}
	if confidence.Valid {
		_ = json.Unmarshal([]byte(confidence.String), &is.ConfidenceScores)
	}
	return is, nil
}

// SaveWeekly inserts a tweet weekly summary row (append-only)
func (s *TweetStore) SaveWeekly(w *models.TweetWeeklySummary) error {
	topics, err := json.Marshal(w.TopicsDiscussed)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}
	metrics, err := json.Marshal(w.EngagementMetrics)
	if err != nil {
		return fmt.Errorf("failed to marshal engagement metrics: %w", err)
	}

	createdAt := w.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO tweet_weekly_summaries
			(week_start_date, week_end_date, summary_text, topics_discussed, engagement_metrics, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.WeekStart, w.WeekEnd, w.Summary, string(topics), string(metrics), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert tweet weekly summary: %w", err)
	}
	return nil
}

func (s *TweetStore) queryTweets(query string, args ...interface{}) ([]models.Tweet, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tweets []models.Tweet
	for rows.Next() {
		var (
			t            models.Tweet
			replyToTweet sql.NullString
			replyToUser  sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.TweetID, &t.Text, &t.CreatedAt, &t.IsRetweet,
			&t.IsReply, &replyToTweet, &replyToUser, &t.RetweetCount, &t.LikeCount,
			&t.QuoteCount, &t.Processed); err != nil {
			return nil, err
		}
		t.ReplyToTweetID = replyToTweet.String
		t.ReplyToUserID = replyToUser.String
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
