// ABOUTME: Tweet represents a single tweet from an imported Twitter archive
// ABOUTME: Carries engagement counts and reply/retweet classification
package models

import "time"

// Tweet is one tweet from the corpus. TweetID is the natural key; the
// surrogate ID comes from the relational store.
type Tweet struct {
	ID             int64     `json:"id"`
	TweetID        string    `json:"tweet_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	IsRetweet      bool      `json:"is_retweet"`
	IsReply        bool      `json:"is_reply"`
	ReplyToTweetID string    `json:"reply_to_tweet_id,omitempty"`
	ReplyToUserID  string    `json:"reply_to_user_id,omitempty"`
	RetweetCount   int       `json:"retweet_count"`
	LikeCount      int       `json:"like_count"`
	QuoteCount     int       `json:"quote_count"`
	Processed      bool      `json:"processed_in_summary"`
}

// Timestamp returns the tweet creation time for time-ordered sampling.
func (t Tweet) Timestamp() time.Time {
	return t.CreatedAt
}

// Label classifies a tweet for prompt formatting.
func (t Tweet) Label() string {
	switch {
	case t.IsRetweet:
		return "RETWEET"
	case t.IsReply:
		return "REPLY"
	default:
		return "TWEET"
	}
}
