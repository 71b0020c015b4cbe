// Package pipeline orchestrates one RAG query: embed the question,
// retrieve and rank context chunks, render the grounding prompt, and
// invoke the generation model.
package pipeline

import (
	"context"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/logger"
)

// Timer is an optional observability hook. Mark is called with a stage
// name before and after each pipeline stage; implementations must not
// affect the pipeline outcome.
type Timer interface {
	Mark(name string)
}

// QueryProcessor runs the four pipeline stages strictly in sequence.
// It holds no per-call state: the same processor may serve sequential
// queries, and a failed stage propagates its own error kind unchanged.
type QueryProcessor struct {
	embedder  core.EmbedService
	retriever core.RetrievalService
	augmenter core.Augmenter
	generator core.GenerateService
	config    ProcessorConfig
	timer     Timer // nil disables timing
}

// NewQueryProcessor wires the pipeline stages under a validated config.
func NewQueryProcessor(
	embedder core.EmbedService,
	retriever core.RetrievalService,
	augmenter core.Augmenter,
	generator core.GenerateService,
	config ProcessorConfig,
) (*QueryProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &QueryProcessor{
		embedder:  embedder,
		retriever: retriever,
		augmenter: augmenter,
		generator: generator,
		config:    config,
	}, nil
}

// WithTimer attaches an observational timer to the processor.
func (p *QueryProcessor) WithTimer(t Timer) *QueryProcessor {
	p.timer = t
	return p
}

// ProcessQuery answers one question: embed, retrieve, augment, generate.
// Exactly one generation call per query; no retries, no stage skipped.
// An empty retrieval result is not an error and flows through to
// generation with an explicit no-context prompt.
func (p *QueryProcessor) ProcessQuery(ctx context.Context, question string) (core.Answer, error) {
	p.mark("embed")
	vector, err := p.embedder.EmbedQuery(ctx, question)
	p.mark("embed")
	if err != nil {
		return core.Answer{}, err
	}

	p.mark("retrieve")
	chunks, err := p.retriever.Retrieve(ctx, core.Query{Text: question, Vector: vector}, p.config.Retrieval)
	p.mark("retrieve")
	if err != nil {
		return core.Answer{}, err
	}
	if len(chunks) == 0 {
		logger.Info("No chunks cleared the similarity threshold; answering without context")
	}

	prompt, err := p.augmenter.Augment(question, chunks)
	if err != nil {
		return core.Answer{}, err
	}

	p.mark("generate")
	answer, err := p.generator.Complete(ctx, prompt)
	p.mark("generate")
	if err != nil {
		return core.Answer{}, err
	}

	return answer, nil
}

func (p *QueryProcessor) mark(name string) {
	if p.timer != nil {
		p.timer.Mark(name)
	}
}
