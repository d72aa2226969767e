package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/shellcheck-gate/internal/domain/ai"
)

func stubClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: "gpt-4"}
}

func TestAnalyzeReturnsContent(t *testing.T) {
	c := stubClient(t, http.StatusOK, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"advice\":\"ok\"}"}}]
	}`)

	out, err := c.Analyze(context.Background(), "https://store.local/r.xml")
	require.NoError(t, err)
	assert.Equal(t, `{"advice":"ok"}`, out)
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	c := stubClient(t, http.StatusOK, `{"id": "cmpl-1", "object": "chat.completion", "choices": []}`)

	_, err := c.Analyze(context.Background(), "https://store.local/r.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestAnalyzeQuotaExceeded(t *testing.T) {
	c := stubClient(t, http.StatusTooManyRequests, `{
		"error": {"message": "rate limit reached", "type": "rate_limit_exceeded"}
	}`)

	_, err := c.Analyze(context.Background(), "https://store.local/r.xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}
