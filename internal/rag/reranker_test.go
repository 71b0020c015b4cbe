package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfortress/benchrag/internal/core"
)

func TestHTTPReranker(t *testing.T) {
	ctx := context.Background()
	candidates := []core.Chunk{
		{ID: "chunk-a", Text: "alpha text"},
		{ID: "chunk-b", Text: "beta text"},
	}

	t.Run("maps response indices back to chunk IDs", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/rerank", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req rerankRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "how do I audit admins", req.Query)
			assert.Equal(t, []string{"alpha text", "beta text"}, req.Documents)

			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"index": 1, "relevance_score": 0.91},
					{"index": 0, "relevance_score": 0.42},
				},
			})
		}))
		defer srv.Close()

		r := NewHTTPReranker(srv.URL, "test-key", "rerank-v3.5")
		ranked, err := r.Rerank(ctx, "how do I audit admins", candidates)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, core.RankedID{ID: "chunk-b", Score: 0.91}, ranked[0])
		assert.Equal(t, core.RankedID{ID: "chunk-a", Score: 0.42}, ranked[1])
	})

	t.Run("empty candidate set makes no request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		}))
		defer srv.Close()

		r := NewHTTPReranker(srv.URL, "", "rerank-v3.5")
		ranked, err := r.Rerank(ctx, "anything", nil)
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"message": "rate limited"})
		}))
		defer srv.Close()

		r := NewHTTPReranker(srv.URL, "", "rerank-v3.5")
		_, err := r.Rerank(ctx, "anything", candidates)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("out-of-range index is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"index": 7, "relevance_score": 0.5}},
			})
		}))
		defer srv.Close()

		r := NewHTTPReranker(srv.URL, "", "rerank-v3.5")
		_, err := r.Rerank(ctx, "anything", candidates)
		require.Error(t, err)
	})
}
