// Package llm sends augmented prompts to a chat completion model and
// returns the answer text.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/logger"
)

// systemPrompt keeps the model on the grounding contract; the per-query
// context and question arrive in the user message.
const systemPrompt = "You are a security-benchmark assistant. Answer using only the provided context."

// GenerationError reports a failed generation call: transport failure,
// rate limiting, or an empty/invalid response.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (model %s): %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// OpenAIGenerator implements core.GenerateService against the OpenAI chat
// completions API. Stateless per call aside from the configured model.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for the given model.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return NewOpenAIGeneratorWithBaseURL(apiKey, model, "")
}

// NewOpenAIGeneratorWithBaseURL creates a generator pointed at a custom
// API endpoint. Used by tests and local OpenAI-compatible servers.
func NewOpenAIGeneratorWithBaseURL(apiKey, model, baseURL string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends the augmented prompt to the model and returns the answer.
func (g *OpenAIGenerator) Complete(ctx context.Context, prompt string) (core.Answer, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return core.Answer{}, &GenerationError{Model: g.model, Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return core.Answer{}, &GenerationError{Model: g.model, Err: fmt.Errorf("empty response from model")}
	}

	logger.Debug("Generation finished: %d choices, %d prompt tokens", len(resp.Choices), resp.Usage.PromptTokens)

	return core.Answer{
		Text:  resp.Choices[0].Message.Content,
		Model: g.model,
	}, nil
}

// Model returns the generation model identifier.
func (g *OpenAIGenerator) Model() string {
	return g.model
}
