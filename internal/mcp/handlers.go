// ABOUTME: MCP tool handler implementations for the correspondent server
// ABOUTME: Handlers return tool errors in-band rather than failing the call
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/correspondent/internal/core"
	"github.com/harper/correspondent/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store    *sqlite.Storage
	searcher *core.Searcher
}

// SearchHistory handles the search_history tool
func (h *Handlers) SearchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	opts := core.SearchOptions{
		Contact: request.GetString("contact", ""),
		K:       request.GetInt("max_results", core.DefaultSearchK),
	}

	if startStr := request.GetString("start_date", ""); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date %q: use YYYY-MM-DD", startStr)), nil
		}
		opts.StartDate = start
	}
	if endStr := request.GetString("end_date", ""); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date %q: use YYYY-MM-DD", endStr)), nil
		}
		opts.EndDate = end
	}

	results, err := h.searcher.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetContactProfile handles the get_contact_profile tool
func (h *Handlers) GetContactProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactArg, err := request.RequireString("contact")
	if err != nil {
		return mcp.NewToolResultError("contact argument is required and must be a string"), nil
	}

	contact, err := h.store.Contacts.GetByName(contactArg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("contact lookup failed: %v", err)), nil
	}
	if contact == nil {
		contact, err = h.store.Contacts.GetByIdentifier(contactArg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("contact lookup failed: %v", err)), nil
		}
	}
	if contact == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no contact found matching %q", contactArg)), nil
	}

	profile, err := h.store.Identity.GetLatest(contact.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile lookup failed: %v", err)), nil
	}
	if profile == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no profile exists yet for %s", contact.Name())), nil
	}

	response := map[string]interface{}{
		"contact":              contact.Name(),
		"identifier":           contact.Identifier,
		"summary":              profile.Summary,
		"personality_traits":   profile.PersonalityTraits,
		"relationship_context": profile.RelationshipContext,
		"common_topics":        profile.CommonTopics,
		"confidence_scores":    profile.ConfidenceScores,
		"generated_at":         profile.CreatedAt.Format(time.RFC3339),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListContacts handles the list_contacts tool
func (h *Handlers) ListContacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts, err := h.store.Contacts.All()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list contacts: %v", err)), nil
	}

	list := make([]map[string]interface{}, 0, len(contacts))
	for _, contact := range contacts {
		messages, err := h.store.Messages.CountForContact(contact.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to count messages: %v", err)), nil
		}
		summaries, err := h.store.Weekly.CountForContact(contact.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to count summaries: %v", err)), nil
		}

		list = append(list, map[string]interface{}{
			"name":             contact.Name(),
			"identifier":       contact.Identifier,
			"message_count":    messages,
			"weekly_summaries": summaries,
		})
	}

	response := map[string]interface{}{
		"contacts": list,
		"total":    len(list),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
