// Package rag retrieves and ranks benchmark chunks for a query: ANN
// candidate fetch from the vector store, canonical cosine re-scoring,
// optional cross-encoder reranking, then threshold and top-K selection.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/logger"
)

// DefaultCandidateLimit is how many ANN candidates are pulled from the
// store before scoring. Wider than any allowed top_k so the threshold
// filter has something to work with.
const DefaultCandidateLimit = 25

// RetrievalError reports a store or reranker transport failure during
// retrieval. An empty candidate set is not an error.
type RetrievalError struct {
	Stage string // "store" or "rerank"
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed at %s: %v", e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Retriever implements core.RetrievalService on top of a vector store and
// an optional reranker. Both collaborators are long-lived clients shared
// across sequential queries.
type Retriever struct {
	store          core.VectorStore
	reranker       core.Reranker // nil disables reranking
	candidateLimit int
}

// NewRetriever creates a retriever. Pass a nil reranker to rank by cosine
// score alone.
func NewRetriever(store core.VectorStore, reranker core.Reranker) *Retriever {
	return &Retriever{
		store:          store,
		reranker:       reranker,
		candidateLimit: DefaultCandidateLimit,
	}
}

// Retrieve returns the chunks relevant to the query, highest-ranked first.
//
// The cosine score computed here is the canonical filter metric: the
// similarity threshold always applies to it, even when a reranker decides
// the final ordering. Reranker failure aborts retrieval rather than
// falling back to cosine order.
func (r *Retriever) Retrieve(ctx context.Context, query core.Query, cfg core.RetrievalConfig) ([]core.ScoredChunk, error) {
	limit := r.candidateLimit
	if cfg.TopK > limit {
		limit = cfg.TopK
	}

	candidates, err := r.store.Nearest(ctx, query.Vector, limit)
	if err != nil {
		return nil, &RetrievalError{Stage: "store", Err: err}
	}
	if len(candidates) == 0 {
		return []core.ScoredChunk{}, nil
	}

	// Re-score with cosine so ranking is decoupled from whatever
	// distance metric the store used natively.
	scored := make([]core.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		score, err := Cosine(query.Vector, c.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, core.ScoredChunk{Chunk: c, Score: score})
	}

	if r.reranker != nil {
		ranked, err := r.reranker.Rerank(ctx, query.Text, candidates)
		if err != nil {
			return nil, &RetrievalError{Stage: "rerank", Err: err}
		}
		orderByRerank(scored, ranked)
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	}

	// Threshold filter uses the cosine score regardless of what decided
	// the ordering above.
	kept := scored[:0]
	for _, sc := range scored {
		if sc.Score >= cfg.SimilarityThreshold {
			kept = append(kept, sc)
		}
	}

	if len(kept) > cfg.TopK {
		kept = kept[:cfg.TopK]
	}

	logger.Debug("Retrieval kept %d of %d candidates (top_k=%d, threshold=%.2f)",
		len(kept), len(candidates), cfg.TopK, cfg.SimilarityThreshold)
	return kept, nil
}

// orderByRerank reorders scored in place by the reranker's relevance
// scores, descending. Candidates the reranker did not mention sort last,
// keeping their relative order. The cosine Score field is untouched.
func orderByRerank(scored []core.ScoredChunk, ranked []core.RankedID) {
	rank := make(map[string]float64, len(ranked))
	for _, r := range ranked {
		rank[r.ID] = r.Score
	}

	relevance := func(sc core.ScoredChunk) float64 {
		if v, ok := rank[sc.Chunk.ID]; ok {
			return v
		}
		return math.Inf(-1)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return relevance(scored[i]) > relevance(scored[j])
	})
}
