// ABOUTME: Grounded question answering over retrieved message history
// ABOUTME: Formats ranked results chronologically and asks for a cited answer
package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/harper/correspondent/internal/models"
)

// Answerer is the prose-response surface of the gateway.
type Answerer interface {
	Respond(ctx context.Context, system, prompt string) (string, error)
}

const responderSystem = "You are a helpful assistant that analyzes message " +
	"history and provides detailed, accurate answers based only on the " +
	"provided context."

// Responder answers free-form questions grounded in search results.
type Responder struct {
	searcher *Searcher
	gateway  Answerer
}

// NewResponder creates a responder over the searcher.
func NewResponder(searcher *Searcher, gateway Answerer) *Responder {
	return &Responder{searcher: searcher, gateway: gateway}
}

// Answer searches for context relevant to the question and asks the model
// for an answer grounded only in what was found.
func (r *Responder) Answer(ctx context.Context, question string, opts SearchOptions) (string, error) {
	results, err := r.searcher.Search(ctx, question, opts)
	if err != nil {
		return "", fmt.Errorf("context search failed: %w", err)
	}
	if results.Empty() {
		return "I could not find anything in the message history related to that question.", nil
	}

	prompt := buildAnswerPrompt(question, results)
	log.Printf("[Responder] answering with %d summaries, %d profiles, %d messages",
		len(results.Summaries), len(results.Identity), len(results.Messages))

	answer, err := r.gateway.Respond(ctx, responderSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return answer, nil
}

// buildAnswerPrompt lays out profiles, then summaries, then raw messages
// in chronological order, and repeats the grounding instruction.
func buildAnswerPrompt(question string, results *models.SearchResults) string {
	var b strings.Builder
	b.WriteString("Context: the following was retrieved from a personal message history.\n\n")

	if len(results.Identity) > 0 {
		b.WriteString("Contact profiles:\n")
		for _, doc := range results.Identity {
			fmt.Fprintf(&b, "- %s: %s\n", metaString(doc, "contact"), doc.Content)
		}
		b.WriteString("\n")
	}

	if len(results.Summaries) > 0 {
		b.WriteString("Weekly summaries:\n")
		for _, doc := range sortedByTimestamp(results.Summaries) {
			fmt.Fprintf(&b, "- [week of %s, %s] %s\n",
				metaString(doc, "week_start"), metaString(doc, "contact"), doc.Content)
		}
		b.WriteString("\n")
	}

	if len(results.Messages) > 0 {
		b.WriteString("Messages:\n")
		for _, doc := range sortedByTimestamp(results.Messages) {
			fmt.Fprintf(&b, "[%s] %s: %s\n",
				metaString(doc, "created_at"), metaString(doc, "sender"), doc.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `Question: %s

Provide a clear and detailed answer based only on the information above.
Include specific dates and quotes when relevant. If the information needed
to answer the question is not present, say so.`, question)
	return b.String()
}

// sortedByTimestamp orders documents ascending by their denormalized
// timestamp metadata.
func sortedByTimestamp(docs []models.Document) []models.Document {
	out := make([]models.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return metaTimestamp(out[i]) < metaTimestamp(out[j])
	})
	return out
}

func metaTimestamp(doc models.Document) float64 {
	if f, ok := doc.Metadata["timestamp"].(float64); ok {
		return f
	}
	if n, ok := doc.Metadata["timestamp"].(int64); ok {
		return float64(n)
	}
	return 0
}

func metaString(doc models.Document, field string) string {
	if s, ok := doc.Metadata[field].(string); ok {
		return s
	}
	return "unknown"
}
