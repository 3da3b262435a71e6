// ABOUTME: Centralized configuration for the correspondent system
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the system
type Config struct {
	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string

	// Pacing settings
	RequestsPerMinute int
	PacerBackoff      time.Duration

	// Aggregator settings
	SkipExistingWeeks   bool
	MinIdentityMessages int
	ContactPause        time.Duration
	ErrorPause          time.Duration

	// Search settings
	MessageLookbackDays int
	SearchK             int

	// Privacy settings
	PrivacyFilter   bool
	AllowedContacts []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		CharmHost:           getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:         getEnv("CHARM_DB", "correspondent"),
		AutoSync:            getEnvBool("CHARM_AUTO_SYNC", true),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		ChatModel:           getEnv("CORRESPONDENT_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:      getEnv("CORRESPONDENT_EMBEDDING_MODEL", "text-embedding-3-small"),
		RequestsPerMinute:   getEnvInt("CORRESPONDENT_REQUESTS_PER_MINUTE", 50),
		PacerBackoff:        getEnvDuration("CORRESPONDENT_PACER_BACKOFF", 250*time.Millisecond),
		SkipExistingWeeks:   getEnvBool("CORRESPONDENT_SKIP_EXISTING_WEEKS", true),
		MinIdentityMessages: getEnvInt("CORRESPONDENT_MIN_IDENTITY_MESSAGES", 5),
		ContactPause:        getEnvDuration("CORRESPONDENT_CONTACT_PAUSE", 10*time.Second),
		ErrorPause:          getEnvDuration("CORRESPONDENT_ERROR_PAUSE", 30*time.Second),
		MessageLookbackDays: getEnvInt("CORRESPONDENT_MESSAGE_LOOKBACK_DAYS", 30),
		SearchK:             getEnvInt("CORRESPONDENT_SEARCH_K", 3),
		PrivacyFilter:       getEnvBool("CORRESPONDENT_PRIVACY_FILTER", true),
		AllowedContacts:     getEnvList("CORRESPONDENT_ALLOWED_CONTACTS"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("CORRESPONDENT_REQUESTS_PER_MINUTE must be positive, got %d", c.RequestsPerMinute)
	}
	if c.MinIdentityMessages < 0 {
		return fmt.Errorf("CORRESPONDENT_MIN_IDENTITY_MESSAGES must be non-negative, got %d", c.MinIdentityMessages)
	}
	if c.MessageLookbackDays <= 0 {
		return fmt.Errorf("CORRESPONDENT_MESSAGE_LOOKBACK_DAYS must be positive, got %d", c.MessageLookbackDays)
	}
	if c.SearchK <= 0 {
		return fmt.Errorf("CORRESPONDENT_SEARCH_K must be positive, got %d", c.SearchK)
	}
	return nil
}

// RequireOpenAIKey fails when inference is needed but unconfigured.
func (c *Config) RequireOpenAIKey() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
