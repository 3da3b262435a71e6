// ABOUTME: Prompt builders and required-field schemas for summarization
// ABOUTME: Keeps every prompt template in one place next to its schema
package llm

import (
	"fmt"
	"strings"

	"github.com/harper/correspondent/internal/models"
)

// System instructions pair with the required-field lists below: the
// aggregators pass them to Gateway.Summarize as a unit.
const (
	WeeklySystem = "You are an analyst who summarizes personal message history. " +
		"Respond ONLY with a JSON object, no prose before or after."

	IdentitySystem = "You are an analyst who builds evolving profiles of people " +
		"from their message history. Respond ONLY with a JSON object, no prose " +
		"before or after."

	TweetSystem = "You are an analyst who profiles a Twitter account from its " +
		"posted tweets. Respond ONLY with a JSON object, no prose before or after."
)

// Required top-level fields per summary kind.
var (
	WeeklyFields        = []string{"weekly_summary", "key_events", "topics_discussed", "overall_tone"}
	IdentityFields      = []string{"summary", "personality_traits", "relationship_context", "common_topics"}
	TweetIdentityFields = []string{"summary", "personality_traits", "interests", "common_topics", "confidence_scores"}
	TweetWeeklyFields   = []string{"weekly_summary", "topics_discussed", "engagement_metrics"}
)

// FormatMessages renders messages as one "[date] sender: text" line each,
// oldest first as given. Outbound messages attribute to "Me".
func FormatMessages(messages []models.Message, contactName string) string {
	var b strings.Builder
	for _, m := range messages {
		sender := contactName
		if m.IsFromMe {
			sender = "Me"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.Date.Format("2006-01-02 15:04"), sender, m.Text)
	}
	return b.String()
}

// FormatTweets renders tweets as "[date] LABEL: text" lines, where LABEL
// marks retweets and replies
func FormatTweets(tweets []models.Tweet) string {
	var b strings.Builder
	for _, t := range tweets {
		fmt.Fprintf(&b, "[%s] %s: %s\n", t.CreatedAt.Format("2006-01-02 15:04"), t.Label(), t.Text)
	}
	return b.String()
}

// BuildWeeklyPrompt asks for a summary of one contact's week of messages.
func BuildWeeklyPrompt(contactName string, weekStart string, messages []models.Message) string {
	return fmt.Sprintf(`Analyze this week of messages between me and %s (week of %s).

Messages:
%s
Return a JSON object with exactly these fields:
{
  "weekly_summary": "2-3 sentence summary of the week's conversation",
  "key_events": ["notable events or plans mentioned"],
  "topics_discussed": ["main topics"],
  "overall_tone": "one or two words describing the tone"
}`, contactName, weekStart, FormatMessages(messages, contactName))
}

// BuildIdentityPrompt asks for an updated profile of a contact. A previous
// summary, when present, is given as context so the profile evolves rather
// than resets.
func BuildIdentityPrompt(contactName string, prev *models.IdentitySummary, messages []models.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a profile of %s based on our message history.\n\n", contactName)
	if prev != nil {
		fmt.Fprintf(&b, "Previous profile (update it, do not start over):\n%s\n\n", prev.Summary)
	}
	fmt.Fprintf(&b, "Messages:\n%s\n", FormatMessages(messages, contactName))
	b.WriteString(`Return a JSON object with exactly these fields:
{
  "summary": "3-4 sentence profile of who this person is to me",
  "personality_traits": {"trait": 0.0-1.0 score},
  "relationship_context": {"aspect": 0.0-1.0 score},
  "common_topics": ["recurring topics"]
}`)
	return b.String()
}

// BuildTweetIdentityPrompt asks for a profile of the account author from a
// sample of their tweets.
func BuildTweetIdentityPrompt(tweets []models.Tweet) string {
	return fmt.Sprintf(`Build a profile of this Twitter account's author from their tweets.

Tweets:
%s
Return a JSON object with exactly these fields:
{
  "summary": "3-4 sentence profile of the author",
  "personality_traits": {"trait": 0.0-1.0 score},
  "interests": {"interest": 0.0-1.0 score},
  "common_topics": ["recurring topics"],
  "confidence_scores": {"field": 0.0-1.0 confidence in each assessment}
}`, FormatTweets(tweets))
}

// BuildTweetWeeklyPrompt asks for a summary of one week of tweets.
func BuildTweetWeeklyPrompt(weekStart string, tweets []models.Tweet) string {
	return fmt.Sprintf(`Summarize this week of tweets (week of %s).

Tweets:
%s
Return a JSON object with exactly these fields:
{
  "weekly_summary": "2-3 sentence summary of the week's posting",
  "topics_discussed": ["main topics"],
  "engagement_metrics": {"metric": value}
}`, weekStart, FormatTweets(tweets))
}
