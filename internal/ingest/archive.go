// ABOUTME: Twitter archive ingestion: parses tweets.js into the tweet store
// ABOUTME: Handles the window.YTD assignment prefix and both entry shapes
package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harper/correspondent/internal/models"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// twitterTimeLayout is the created_at format used in archive exports.
const twitterTimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// ArchiveImporter loads a Twitter archive export into the tweet store.
type ArchiveImporter struct {
	store *sqlite.Storage
}

// NewArchiveImporter creates an importer over the store.
func NewArchiveImporter(store *sqlite.Storage) *ArchiveImporter {
	return &ArchiveImporter{store: store}
}

// Import parses the archive at path and saves every tweet. path may be
// the archive root directory or the tweets.js file itself. Returns the
// number of tweets saved.
func (a *ArchiveImporter) Import(path string) (int, error) {
	tweets, err := ParseArchive(path)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, t := range tweets {
		if err := a.store.Tweets.Save(&t); err != nil {
			log.Printf("[ArchiveImporter] skipping tweet %s: %v", t.TweetID, err)
			continue
		}
		saved++
	}
	log.Printf("[ArchiveImporter] imported %d of %d tweets", saved, len(tweets))
	return saved, nil
}

// ParseArchive reads and parses a Twitter archive tweets file.
func ParseArchive(path string) ([]models.Tweet, error) {
	file, err := resolveTweetFile(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	return parseTweetsJS(string(content))
}

// resolveTweetFile locates the tweets file inside an archive directory.
// Twitter has shipped both data/tweets.js and data/tweet.js.
func resolveTweetFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("archive not found: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range []string{"tweets.js", "tweet.js"} {
		candidate := filepath.Join(path, "data", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no tweets file found under %s/data", path)
}

// archiveEntry is one element of the tweets array. Newer exports wrap the
// tweet in a {"tweet": {...}} object; older ones do not.
type archiveEntry struct {
	Tweet json.RawMessage `json:"tweet"`
}

type archiveTweet struct {
	IDStr             string  `json:"id_str"`
	ID                string  `json:"id"`
	FullText          string  `json:"full_text"`
	CreatedAt         string  `json:"created_at"`
	InReplyToStatusID string  `json:"in_reply_to_status_id_str"`
	InReplyToUserID   string  `json:"in_reply_to_user_id_str"`
	RetweetCount      flexInt `json:"retweet_count"`
	FavoriteCount     flexInt `json:"favorite_count"`
	QuoteCount        flexInt `json:"quote_count"`
}

func parseTweetsJS(content string) ([]models.Tweet, error) {
	// Archive files open with an assignment like
	// "window.YTD.tweets.part0 = [...]"
	if strings.HasPrefix(content, "window.YTD.") {
		parts := strings.SplitN(content, "= ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed archive header")
		}
		content = parts[1]
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse archive JSON: %w", err)
	}

	var tweets []models.Tweet
	for _, raw := range entries {
		// Unwrap the {"tweet": {...}} envelope when present
		var wrapper archiveEntry
		if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Tweet != nil {
			raw = wrapper.Tweet
		}

		var at archiveTweet
		if err := json.Unmarshal(raw, &at); err != nil {
			log.Printf("[ArchiveImporter] skipping unparseable entry: %v", err)
			continue
		}

		tweet, err := at.toModel()
		if err != nil {
			log.Printf("[ArchiveImporter] skipping tweet %s: %v", at.id(), err)
			continue
		}
		tweets = append(tweets, tweet)
	}
	return tweets, nil
}

func (at *archiveTweet) id() string {
	if at.IDStr != "" {
		return at.IDStr
	}
	return at.ID
}

func (at *archiveTweet) toModel() (models.Tweet, error) {
	if at.id() == "" {
		return models.Tweet{}, fmt.Errorf("tweet has no id")
	}
	if at.FullText == "" {
		return models.Tweet{}, fmt.Errorf("tweet has no text")
	}

	createdAt, err := time.Parse(twitterTimeLayout, at.CreatedAt)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("bad created_at %q: %w", at.CreatedAt, err)
	}

	return models.Tweet{
		TweetID:        at.id(),
		Text:           at.FullText,
		CreatedAt:      createdAt,
		IsRetweet:      strings.HasPrefix(at.FullText, "RT @"),
		IsReply:        at.InReplyToStatusID != "",
		ReplyToTweetID: at.InReplyToStatusID,
		ReplyToUserID:  at.InReplyToUserID,
		RetweetCount:   int(at.RetweetCount),
		LikeCount:      int(at.FavoriteCount),
		QuoteCount:     int(at.QuoteCount),
	}, nil
}

// flexInt decodes archive counts, which appear as both bare numbers and
// quoted strings across export vintages.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a count: %q", string(data))
	}
	*f = flexInt(n)
	return nil
}
