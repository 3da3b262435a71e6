// ABOUTME: Shared construction helpers for CLI commands
// ABOUTME: Wires config, storage, LLM gateway, and search components
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/correspondent/internal/config"
	"github.com/harper/correspondent/internal/core"
	"github.com/harper/correspondent/internal/index"
	"github.com/harper/correspondent/internal/llm"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

// loadConfig loads .env and environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openStorage opens the default on-disk store
func openStorage() (*sqlite.Storage, error) {
	store, err := sqlite.NewStorage()
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// buildGateway creates a paced LLM gateway from config. Requires an API key.
func buildGateway(cfg *config.Config) (*llm.Gateway, error) {
	if err := cfg.RequireOpenAIKey(); err != nil {
		return nil, err
	}
	client := openai.NewClient(cfg.OpenAIKey)
	pacer := llm.NewPacer(cfg.RequestsPerMinute, cfg.PacerBackoff)
	return llm.NewGateway(client, cfg.ChatModel, pacer), nil
}

// buildLoader creates the three-index loader, with privacy masking when enabled
func buildLoader(cfg *config.Config, store *sqlite.Storage) (*index.Loader, error) {
	if err := cfg.RequireOpenAIKey(); err != nil {
		return nil, err
	}
	client := openai.NewClient(cfg.OpenAIKey)
	embedder := index.NewOpenAIEmbedder(client, cfg.EmbeddingModel)

	var sanitize index.Sanitizer
	if cfg.PrivacyFilter {
		sanitize = core.NewPrivacyFilter(cfg.AllowedContacts).Mask
	}
	return index.NewLoader(store, embedder, sanitize), nil
}

// buildSearcher creates a searcher over the persisted indices
func buildSearcher(cfg *config.Config, store *sqlite.Storage) (*core.Searcher, error) {
	loader, err := buildLoader(cfg, store)
	if err != nil {
		return nil, err
	}

	var privacy *core.PrivacyFilter
	if cfg.PrivacyFilter {
		privacy = core.NewPrivacyFilter(cfg.AllowedContacts)
	}
	return core.NewSearcher(loader, privacy), nil
}
