// Package embed turns question text into fixed-dimension embedding
// vectors using a remote embedding model.
package embed

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jdfortress/benchrag/internal/logger"
)

// EmbeddingError reports a failed embedding call: transport error, empty
// input, empty response, or a vector of the wrong dimension.
type EmbeddingError struct {
	Model string
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed (model %s): %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// OpenAIEmbedder implements core.EmbedService against the OpenAI
// embeddings API. The client is long-lived and reused across queries.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder creates an embedder for the given model and expected
// vector dimension.
func NewOpenAIEmbedder(apiKey, model string, dim int) *OpenAIEmbedder {
	return NewOpenAIEmbedderWithBaseURL(apiKey, model, dim, "")
}

// NewOpenAIEmbedderWithBaseURL creates an embedder pointed at a custom
// API endpoint. Used by tests and local OpenAI-compatible servers.
func NewOpenAIEmbedderWithBaseURL(apiKey, model string, dim int, baseURL string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dim:    dim,
	}
}

// EmbedQuery generates an embedding for the given text. A response vector
// of the wrong dimension is surfaced as an error, never truncated or
// padded. Retry policy belongs to the caller.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, &EmbeddingError{Model: e.model, Err: fmt.Errorf("cannot embed empty text")}
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, &EmbeddingError{Model: e.model, Err: err}
	}

	if len(resp.Data) == 0 {
		return nil, &EmbeddingError{Model: e.model, Err: fmt.Errorf("no embedding data in response")}
	}

	vector := resp.Data[0].Embedding
	if len(vector) != e.dim {
		return nil, &EmbeddingError{
			Model: e.model,
			Err:   fmt.Errorf("dimension mismatch: got %d, want %d", len(vector), e.dim),
		}
	}

	logger.Debug("Embedded query (%d chars) into %d-dim vector", len(text), len(vector))
	return vector, nil
}

// Dimension returns the expected embedding dimension.
func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}
