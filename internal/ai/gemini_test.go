package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerateSendsImageAndReturnsText(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`))
	}))
	defer srv.Close()

	g := GeminiModel{APIKey: "k", BaseURL: srv.URL}
	out, err := g.Generate(context.Background(), Prompt{System: "sys", Text: "look", Image: []byte("img"), ImageMIME: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "sys", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 2)
	assert.Equal(t, "look", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "image/png", got.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "aW1n", got.Contents[0].Parts[1].InlineData.Data)
	assert.Zero(t, got.GenerationConfig.Temperature)
}

func TestGeminiRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"12s"}]}}`))
	}))
	defer srv.Close()

	_, err := GeminiModel{APIKey: "k", BaseURL: srv.URL}.Generate(context.Background(), Prompt{Text: "x"})
	var rl RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 12*time.Second, rl.RetryAfter)
}

func TestGeminiBlockedPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := GeminiModel{APIKey: "k", BaseURL: srv.URL}.Generate(context.Background(), Prompt{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiRequiresKey(t *testing.T) {
	_, err := GeminiModel{}.Generate(context.Background(), Prompt{Text: "x"})
	assert.Error(t, err)
}

func TestOpenAICompatSendsDataURL(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	m := OpenAICompatModel{BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini", APIKey: "secret"}
	out, err := m.Generate(context.Background(), Prompt{System: "sys", Text: "look", Image: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)
	parts := user["content"].([]any)
	img := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/jpeg;base64,aW1n", img["url"])
}

func TestOpenAICompatRetryAfterHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := OpenAICompatModel{BaseURL: srv.URL, Model: "m"}.Generate(context.Background(), Prompt{Text: "x"})
	var rl RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
}
