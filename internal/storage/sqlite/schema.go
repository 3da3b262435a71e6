// ABOUTME: SQLite database schema for the message corpus and summaries
// ABOUTME: Creates all tables, indexes, and natural-key uniqueness constraints
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Chats table to store conversation threads
CREATE TABLE IF NOT EXISTS chats (
    id INTEGER PRIMARY KEY,
    chat_identifier TEXT UNIQUE
);

-- Contacts table; identifier is the immutable natural key
CREATE TABLE IF NOT EXISTS contacts (
    id INTEGER PRIMARY KEY,
    identifier TEXT UNIQUE NOT NULL,
    display_name TEXT
);

-- Messages table; the natural-key index below dedupes re-extraction
CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY,
    chat_id INTEGER REFERENCES chats(id),
    contact_id INTEGER REFERENCES contacts(id),
    text TEXT NOT NULL,
    message_date DATETIME NOT NULL,
    is_from_me BOOLEAN NOT NULL DEFAULT FALSE,
    processed_in_summary BOOLEAN NOT NULL DEFAULT FALSE
);

-- Natural key for dedup. Unresolved chat/contact ids are stored as NULL,
-- and SQLite treats NULLs as distinct in plain UNIQUE constraints, so the
-- key coalesces them to 0 to make re-extraction idempotent.
CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_natural_key
    ON messages(IFNULL(chat_id, 0), IFNULL(contact_id, 0), text, message_date);

-- Tweets table for the Twitter-archive variant of the corpus
CREATE TABLE IF NOT EXISTS tweets (
    id INTEGER PRIMARY KEY,
    tweet_id TEXT UNIQUE,
    text TEXT,
    created_at DATETIME,
    is_retweet BOOLEAN,
    is_reply BOOLEAN,
    reply_to_tweet_id TEXT,
    reply_to_user_id TEXT,
    retweet_count INTEGER,
    like_count INTEGER,
    quote_count INTEGER,
    processed_in_summary BOOLEAN NOT NULL DEFAULT FALSE
);

-- Weekly summaries per contact and Monday-aligned window
CREATE TABLE IF NOT EXISTS weekly_summaries (
    id INTEGER PRIMARY KEY,
    contact_id INTEGER REFERENCES contacts(id),
    week_start_date DATE NOT NULL,
    week_end_date DATE NOT NULL,
    summary_text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Identity summaries: append-only version history per contact
CREATE TABLE IF NOT EXISTS identity_summaries (
    id INTEGER PRIMARY KEY,
    contact_id INTEGER REFERENCES contacts(id),
    summary_text TEXT NOT NULL,
    personality_traits TEXT,
    relationship_context TEXT,
    common_topics TEXT,
    confidence_scores TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Tweet variant summaries (no contact dimension; single-account corpus)
CREATE TABLE IF NOT EXISTS tweet_identity_summaries (
    id INTEGER PRIMARY KEY,
    summary_text TEXT NOT NULL,
    personality_traits TEXT,
    interests TEXT,
    common_topics TEXT,
    confidence_scores TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tweet_weekly_summaries (
    id INTEGER PRIMARY KEY,
    week_start_date DATE NOT NULL,
    week_end_date DATE NOT NULL,
    summary_text TEXT NOT NULL,
    topics_discussed TEXT,
    engagement_metrics TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Semantic index documents: text + metadata + embedding vector per index
CREATE TABLE IF NOT EXISTS index_documents (
    id TEXT NOT NULL,
    collection TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (collection, id)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_messages_contact ON messages(contact_id);
CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(message_date);
CREATE INDEX IF NOT EXISTS idx_messages_processed ON messages(processed_in_summary);
CREATE INDEX IF NOT EXISTS idx_weekly_contact ON weekly_summaries(contact_id, week_start_date);
CREATE INDEX IF NOT EXISTS idx_identity_contact ON identity_summaries(contact_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tweets_created ON tweets(created_at);
CREATE INDEX IF NOT EXISTS idx_index_docs_collection ON index_documents(collection);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
