//go:build unit

package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"library-api/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(config.AIConfig{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       "gpt-4o-mini",
		MaxTokens:   500,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	})
}

func TestClient_Complete(t *testing.T) {
	t.Run("sends chat request and parses completion", func(t *testing.T) {
		var got chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  A fine novel.  "}}],"usage":{"total_tokens":42}}`)
		}))
		defer srv.Close()

		client := newTestClient(srv.URL+"/v1/", "sk-test")
		res, err := client.Complete(context.Background(), "system prompt", "user prompt")

		require.NoError(t, err)
		assert.Equal(t, "A fine novel.", res.Text)
		assert.Equal(t, 42, res.TokensUsed)
		assert.Equal(t, "gpt-4o-mini", got.Model)
		assert.Equal(t, 500, got.MaxTokens)
		assert.InDelta(t, 0.7, got.Temperature, 1e-9)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "user prompt", got.Messages[1].Content)
	})

	t.Run("surfaces api error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, "sk-test").Complete(context.Background(), "", "prompt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"choices":[]}`)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, "sk-test").Complete(context.Background(), "", "prompt")

		assert.Error(t, err)
	})
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, newTestClient("http://localhost", " ").Configured())
	assert.True(t, newTestClient("http://localhost", "sk-test").Configured())
}
