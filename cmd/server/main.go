// ABOUTME: Main entry point for the Correspondent MCP server with stdio transport
// ABOUTME: Initializes storage, search indices, and MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/correspondent/internal/config"
	"github.com/harper/correspondent/internal/core"
	"github.com/harper/correspondent/internal/index"
	"github.com/harper/correspondent/internal/mcp"
	"github.com/harper/correspondent/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireOpenAIKey(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize storage with XDG-compliant paths
	store, err := sqlite.NewStorage()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Build semantic search over the persisted indices
	client := openai.NewClient(cfg.OpenAIKey)
	embedder := index.NewOpenAIEmbedder(client, cfg.EmbeddingModel)

	var sanitize index.Sanitizer
	var privacy *core.PrivacyFilter
	if cfg.PrivacyFilter {
		privacy = core.NewPrivacyFilter(cfg.AllowedContacts)
		sanitize = privacy.Mask
	}
	loader := index.NewLoader(store, embedder, sanitize)
	searcher := core.NewSearcher(loader, privacy)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Correspondent",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, store, searcher)

	// Start server with stdio transport
	log.Println("Correspondent MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
