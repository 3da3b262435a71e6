// ABOUTME: Embedding generation for the semantic index
// ABOUTME: OpenAI text-embedding-3-small with exponential backoff retries
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/correspondent/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns text into a vector. Tests inject deterministic fakes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// embeddingClient is the slice of the OpenAI client the embedder needs
type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder generates embeddings via the OpenAI API. Embedding calls
// retry internally (unlike chat calls) because they are cheap, idempotent,
// and not subject to the shared pacing budget.
type OpenAIEmbedder struct {
	client     embeddingClient
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIEmbedder creates an embedder using the given model, defaulting
// to text-embedding-3-small.
func NewOpenAIEmbedder(client *openai.Client, model string) *OpenAIEmbedder {
	m := openai.EmbeddingModel(model)
	if model == "" {
		m = openai.SmallEmbedding3
	}
	return &OpenAIEmbedder{
		client:     client,
		model:      m,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
}

// Embed generates an embedding vector for the given text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(e.retryDelay, attempt))
		}

		reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		resp, err := e.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: e.model,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", e.maxRetries+1, lastErr)
}
