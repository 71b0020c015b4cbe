package embed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingsServer fakes the OpenAI embeddings endpoint, returning a
// vector of the given dimension.
func embeddingsServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vector := make([]float32, dim)
		for i := range vector {
			vector[i] = float32(i) * 0.01
		}
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
			"model": "text-embedding-3-small",
		})
	}))
}

func TestOpenAIEmbedder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns vector of configured dimension", func(t *testing.T) {
		srv := embeddingsServer(t, 8)
		defer srv.Close()

		e := NewOpenAIEmbedderWithBaseURL("key", "text-embedding-3-small", 8, srv.URL+"/v1")
		vector, err := e.EmbedQuery(ctx, "what is the dhcp recommendation")
		require.NoError(t, err)
		assert.Len(t, vector, 8)
		assert.Equal(t, 8, e.Dimension())
	})

	t.Run("dimension mismatch is surfaced, not truncated", func(t *testing.T) {
		srv := embeddingsServer(t, 8)
		defer srv.Close()

		e := NewOpenAIEmbedderWithBaseURL("key", "text-embedding-3-small", 16, srv.URL+"/v1")
		_, err := e.EmbedQuery(ctx, "question")

		var embedErr *EmbeddingError
		require.True(t, errors.As(err, &embedErr))
		assert.Contains(t, err.Error(), "dimension mismatch")
	})

	t.Run("empty input fails without a network call", func(t *testing.T) {
		e := NewOpenAIEmbedderWithBaseURL("key", "text-embedding-3-small", 8, "http://127.0.0.1:1/v1")
		_, err := e.EmbedQuery(ctx, "")

		var embedErr *EmbeddingError
		require.True(t, errors.As(err, &embedErr))
	})

	t.Run("API error wraps as EmbeddingError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "backend exploded", "type": "server_error"},
			})
		}))
		defer srv.Close()

		e := NewOpenAIEmbedderWithBaseURL("key", "text-embedding-3-small", 8, srv.URL+"/v1")
		_, err := e.EmbedQuery(ctx, "question")

		var embedErr *EmbeddingError
		require.True(t, errors.As(err, &embedErr))
	})

	t.Run("empty data wraps as EmbeddingError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
		}))
		defer srv.Close()

		e := NewOpenAIEmbedderWithBaseURL("key", "text-embedding-3-small", 8, srv.URL+"/v1")
		_, err := e.EmbedQuery(ctx, "question")

		var embedErr *EmbeddingError
		require.True(t, errors.As(err, &embedErr))
	})
}
