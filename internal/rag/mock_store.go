package rag

import (
	"context"

	"github.com/jdfortress/benchrag/internal/core"
	"github.com/jdfortress/benchrag/internal/logger"
)

// MockStore provides an in-process stand-in for the vector store so the
// pipeline can run without a Milvus deployment (-mock flag).
type MockStore struct {
	chunks []core.Chunk
}

// NewMockStore creates a mock store preloaded with a few benchmark-style
// chunks.
func NewMockStore() *MockStore {
	return &MockStore{
		chunks: []core.Chunk{
			{
				ID:     "cis-dhcp-2.2.3",
				Text:   "Ensure DHCP Server is not installed. Run 'dpkg -s isc-dhcp-server' and verify the package is absent. Remove it with the system package manager if present.",
				Source: "CIS Distribution Independent Linux Benchmark",
			},
			{
				ID:     "cis-m365-1.1.3",
				Text:   "Ensure between two and four global administrators are designated. Review the Microsoft 365 admin center role assignments and adjust membership accordingly.",
				Source: "CIS Microsoft 365 Foundations Benchmark",
			},
			{
				ID:     "cis-oci-4.1.2",
				Text:   "Ensure object storage buckets are not publicly visible. Audit bucket visibility in the OCI console and set public access to disabled.",
				Source: "CIS Oracle Cloud Infrastructure Foundations Benchmark",
			},
		},
	}
}

// Nearest returns the canned chunks with their embeddings set to the
// query vector, so every candidate scores 1.0 under cosine.
func (s *MockStore) Nearest(ctx context.Context, vector []float32, limit int) ([]core.Chunk, error) {
	logger.Debug("Mock store: returning %d canned chunks (limit %d)", len(s.chunks), limit)

	n := len(s.chunks)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]core.Chunk, n)
	for i := 0; i < n; i++ {
		out[i] = s.chunks[i]
		out[i].Embedding = vector
	}
	return out, nil
}
