package llm

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

func TestOpenAIGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer text and model", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-4o-mini", req["model"])

			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"role": "assistant", "content": "Remove the DHCP package."}},
				},
			})
		}))
		defer srv.Close()

		g := NewOpenAIGeneratorWithBaseURL("key", "gpt-4o-mini", srv.URL+"/v1")
		answer, err := g.Complete(ctx, "grounded prompt")
		require.NoError(t, err)
		assert.Equal(t, "Remove the DHCP package.", answer.Text)
		assert.Equal(t, "gpt-4o-mini", answer.Model)
		assert.Equal(t, "gpt-4o-mini", g.Model())
	})

	t.Run("empty choices wraps as GenerationError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer srv.Close()

		g := NewOpenAIGeneratorWithBaseURL("key", "gpt-4o-mini", srv.URL+"/v1")
		_, err := g.Complete(ctx, "prompt")

		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
	})

	t.Run("rate limit wraps as GenerationError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limit exceeded", "type": "requests"},
			})
		}))
		defer srv.Close()

		g := NewOpenAIGeneratorWithBaseURL("key", "gpt-4o-mini", srv.URL+"/v1")
		_, err := g.Complete(ctx, "prompt")

		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
	})

	t.Run("transport failure wraps as GenerationError", func(t *testing.T) {
		g := NewOpenAIGeneratorWithBaseURL("key", "gpt-4o-mini", "http://127.0.0.1:1/v1")
		_, err := g.Complete(ctx, "prompt")

		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
	})
}
