package core

import "context"

// EmbedService defines the interface for turning text into an embedding
// vector of a fixed, configured dimension.
type EmbedService interface {
	// EmbedQuery generates an embedding for the given text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the expected vector dimension.
	Dimension() int
}

// VectorStore is the black-box nearest-neighbor search dependency. How
// vectors are indexed or persisted is the store's concern, not ours.
type VectorStore interface {
	// Nearest returns up to limit candidate chunks close to the vector,
	// including each candidate's stored embedding.
	Nearest(ctx context.Context, vector []float32, limit int) ([]Chunk, error)
}

// Reranker reorders a candidate set by a secondary relevance signal,
// typically a cross-encoder scoring each chunk against the query text.
type Reranker interface {
	// Rerank returns the candidates' IDs with relevance scores, sorted
	// by score descending.
	Rerank(ctx context.Context, query string, candidates []Chunk) ([]RankedID, error)
	// Model returns the reranker model identifier.
	Model() string
}

// RetrievalService fetches, scores, filters and ranks context chunks for
// one query.
type RetrievalService interface {
	Retrieve(ctx context.Context, query Query, cfg RetrievalConfig) ([]ScoredChunk, error)
}

// Augmenter renders the grounding prompt from a question and its ranked
// context chunks.
type Augmenter interface {
	Augment(question string, chunks []ScoredChunk) (string, error)
}

// GenerateService sends an augmented prompt to a generation model and
// returns the answer.
type GenerateService interface {
	Complete(ctx context.Context, prompt string) (Answer, error)
	// Model returns the generation model identifier.
	Model() string
}
