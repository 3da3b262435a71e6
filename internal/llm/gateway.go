// ABOUTME: Inference gateway wrapping the generative model call
// ABOUTME: Centralizes pacing and fragile JSON parsing for every call site
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the opaque generative call. Satisfied by the OpenAI
// client; tests inject fakes.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Gateway paces requests and extracts strict-JSON responses. It performs
// exactly one request per call: retry policy belongs to the batch-level
// aggregators, which decide whether to pause and continue or abort.
type Gateway struct {
	client  ChatCompleter
	model   string
	pacer   *Pacer
	timeout time.Duration
}

// NewGateway creates a gateway over the given client and pacer
func NewGateway(client ChatCompleter, model string, pacer *Pacer) *Gateway {
	return &Gateway{
		client:  client,
		model:   model,
		pacer:   pacer,
		timeout: 120 * time.Second,
	}
}

// Summarize sends one paced request and extracts a JSON object with the
// required top-level fields. Three outcomes:
//   - (parsed, raw, nil): success
//   - (nil, raw, *ExtractError): model answered but the response failed
//     extraction or schema validation; non-fatal, caller logs and skips
//   - (nil, "", err): request-level failure; caller owns backoff
func (g *Gateway) Summarize(ctx context.Context, system, prompt string, required []string) (map[string]any, string, error) {
	g.pacer.Wait()

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0, // deterministic analysis
	})
	if err != nil {
		return nil, "", fmt.Errorf("inference request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("inference returned no completion choices")
	}

	raw := resp.Choices[0].Message.Content

	parsed, err := ExtractJSON(raw)
	if err != nil {
		return nil, raw, err
	}
	if err := ValidateFields(parsed, required, raw); err != nil {
		return nil, raw, err
	}
	return parsed, raw, nil
}

// Respond sends one paced request and returns the prose answer as-is.
// Used for grounded question answering, where the response is for a
// human rather than a parser.
func (g *Gateway) Respond(ctx context.Context, system, prompt string) (string, error) {
	g.pacer.Wait()

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("inference returned no completion choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
