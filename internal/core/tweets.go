// ABOUTME: Twitter-corpus analysis: author profile and weekly digests
// ABOUTME: Mirrors the message aggregators for a single-author archive
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harper/correspondent/internal/llm"
	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// TweetAnalyzer profiles the archive's author and digests their weekly
// posting. There is no contact dimension: the corpus has one author.
type TweetAnalyzer struct {
	store   *sqlite.Storage
	gateway Summarizer

	now func() time.Time
}

// NewTweetAnalyzer creates an analyzer over the tweet store.
func NewTweetAnalyzer(store *sqlite.Storage, gateway Summarizer) *TweetAnalyzer {
	return &TweetAnalyzer{store: store, gateway: gateway, now: time.Now}
}

// GenerateIdentity builds a new author profile version from a sample of
// the whole archive. Like contact profiles, versions are append-only.
func (t *TweetAnalyzer) GenerateIdentity(ctx context.Context) error {
	tweets, err := t.store.Tweets.All()
	if err != nil {
		return fmt.Errorf("failed to load tweets: %w", err)
	}
	if len(tweets) == 0 {
		return fmt.Errorf("no tweets to analyze")
	}

	sampled := Sample(tweets, DefaultSampleCap)
	prompt := llm.BuildTweetIdentityPrompt(sampled)

	parsed, _, err := t.gateway.Summarize(ctx, llm.TweetSystem, prompt, llm.TweetIdentityFields)
	if err != nil {
		return fmt.Errorf("author profile generation failed: %w", err)
	}

	summaryText, _ := parsed["summary"].(string)
	if summaryText == "" {
		return fmt.Errorf("profile response had empty summary")
	}

	err = t.store.Tweets.SaveIdentity(&models.TweetIdentitySummary{
		Summary:           summaryText,
		PersonalityTraits: llm.ScoreMap(parsed["personality_traits"]),
		Interests:         llm.ScoreMap(parsed["interests"]),
		CommonTopics:      llm.StringList(parsed["common_topics"]),
		ConfidenceScores:  llm.ScoreMap(parsed["confidence_scores"]),
	})
	if err != nil {
		return fmt.Errorf("failed to save author profile: %w", err)
	}

	log.Printf("[TweetAnalyzer] profiled author from %d tweets (%d sampled)", len(tweets), len(sampled))
	return nil
}

// GenerateWeekly digests each Monday-aligned week from the earliest tweet
// to today. Empty weeks are skipped; unparseable weeks are logged and
// left for a later run.
func (t *TweetAnalyzer) GenerateWeekly(ctx context.Context) (int, error) {
	tweets, err := t.store.Tweets.All()
	if err != nil {
		return 0, fmt.Errorf("failed to load tweets: %w", err)
	}
	if len(tweets) == 0 {
		return 0, nil
	}

	earliest := tweets[0].CreatedAt
	for _, tw := range tweets {
		if tw.CreatedAt.Before(earliest) {
			earliest = tw.CreatedAt
		}
	}

	today := t.now()
	written := 0

	for weekStart := FloorToMonday(earliest); !weekStart.After(today); weekStart = weekStart.AddDate(0, 0, 7) {
		wrote, err := t.processWeek(ctx, weekStart)
		if err != nil {
			return written, err
		}
		if wrote {
			written++
		}
	}
	log.Printf("[TweetAnalyzer] generated %d weekly digests", written)
	return written, nil
}

func (t *TweetAnalyzer) processWeek(ctx context.Context, weekStart time.Time) (bool, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	tweets, err := t.store.Tweets.GetForTimeframe(weekStart, weekEnd)
	if err != nil {
		return false, fmt.Errorf("failed to load week tweets: %w", err)
	}
	if len(tweets) == 0 {
		return false, nil
	}

	sampled := Sample(tweets, DefaultSampleCap)
	prompt := llm.BuildTweetWeeklyPrompt(weekStart.Format("2006-01-02"), sampled)

	parsed, _, err := t.gateway.Summarize(ctx, llm.TweetSystem, prompt, llm.TweetWeeklyFields)
	if err != nil {
		var extractErr *llm.ExtractError
		if errors.As(err, &extractErr) {
			log.Printf("[TweetAnalyzer] week %s: unparseable response, skipping: %v",
				weekStart.Format("2006-01-02"), err)
			return false, nil
		}
		return false, err
	}

	summaryText, _ := parsed["weekly_summary"].(string)
	if summaryText == "" {
		log.Printf("[TweetAnalyzer] week %s: empty weekly_summary, skipping", weekStart.Format("2006-01-02"))
		return false, nil
	}

	metrics, _ := parsed["engagement_metrics"].(map[string]any)
	err = t.store.Tweets.SaveWeekly(&models.TweetWeeklySummary{
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		Summary:           summaryText,
		TopicsDiscussed:   llm.StringList(parsed["topics_discussed"]),
		EngagementMetrics: metrics,
	})
	if err != nil {
		return false, fmt.Errorf("failed to save weekly digest: %w", err)
	}
	return true, nil
}
