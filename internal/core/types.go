package core

// DefaultEmbeddingDim is the default dimension for embedding vectors
// (text-embedding-3-small).
const DefaultEmbeddingDim = 1536

// Chunk represents one retrievable unit of the benchmark corpus. The
// embedding is precomputed and stored alongside the text in the vector
// store; this core never creates or mutates it.
type Chunk struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ScoredChunk pairs a chunk with its cosine similarity score against the
// query vector. Ordering is by descending score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Query carries a single question through retrieval: the raw text (needed
// by cross-encoder rerankers) and its embedding vector.
type Query struct {
	Text   string
	Vector []float32
}

// RankedID is a reranker verdict for one candidate chunk.
type RankedID struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Answer is the pipeline's output: the generated text plus the model that
// produced it. It becomes one turn in the caller's chat history.
type Answer struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// RetrievalConfig governs how many chunks are kept and how relevant they
// must be. Values are validated once at construction and never mutated.
type RetrievalConfig struct {
	TopK                int
	SimilarityThreshold float64
}
