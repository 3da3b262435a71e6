// ABOUTME: MCP tool definitions and registration for the correspondent server
// ABOUTME: Exposes history search, contact profiles, and contact listing
package mcp

import (
	"github.com/harper/correspondent/internal/core"
	"github.com/harper/correspondent/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, searcher *core.Searcher) *Handlers {
	handlers := &Handlers{
		store:    store,
		searcher: searcher,
	}

	// 1. search_history - semantic search across summaries, profiles, and messages
	server.AddTool(mcp.Tool{
		Name:        "search_history",
		Description: "Search the message history semantically. Returns weekly summaries, the contact's profile, and relevant raw messages.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What to search for",
				},
				"contact": map[string]interface{}{
					"type":        "string",
					"description": "Optional contact display name to scope the search",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "Optional range start, YYYY-MM-DD",
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "Optional range end, YYYY-MM-DD",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Results to return per index (default: 3)",
					"default":     3,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchHistory)

	// 2. get_contact_profile - latest identity summary for one contact
	server.AddTool(mcp.Tool{
		Name:        "get_contact_profile",
		Description: "Get the latest identity profile for a contact: summary, personality traits, relationship context, and common topics.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"contact": map[string]interface{}{
					"type":        "string",
					"description": "Contact display name or identifier",
				},
			},
			Required: []string{"contact"},
		},
	}, handlers.GetContactProfile)

	// 3. list_contacts - every known contact with message counts
	server.AddTool(mcp.Tool{
		Name:        "list_contacts",
		Description: "List all known contacts with their message and summary counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListContacts)

	return handlers
}
