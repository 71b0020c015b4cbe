package pipeline

import (
	"fmt"

	"github.com/jdfortress/benchrag/internal/core"
)

// ProcessorConfig wraps the per-invocation pipeline settings. It is an
// immutable value: validate once, then pass by value.
type ProcessorConfig struct {
	Retrieval core.RetrievalConfig
}

// Validate checks the configuration bounds: top_k must be positive and
// the similarity threshold must sit in [0, 1].
func (c ProcessorConfig) Validate() error {
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if t := c.Retrieval.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("similarity_threshold must be in [0, 1], got %v", t)
	}
	return nil
}
