package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyonecancode/acc/internal/domain"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newClient(t *testing.T, url string, key string) *OpenRouterClient {
	t.Helper()
	cfg := domain.Config{Completion: domain.CompletionSettings{Endpoint: url}}
	return NewOpenRouterClient(cfg, WithAPIKey(key))
}

func TestCompleteSendsWindowAndHeaders(t *testing.T) {
	var got capturedRequest
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, "sk-test")
	reply, err := client.Complete(context.Background(), domain.CompletionRequest{
		Context: "Workspace structure:\n```\n📄 main.go\n```",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleAssistant, Content: "earlier"},
			{Role: domain.RoleUser, Content: "list files"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	assert.Equal(t, domain.DefaultCompletionModel, got.Model)
	assert.Equal(t, domain.DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "💻 Proposed command:")
	assert.True(t, strings.HasSuffix(got.Messages[0].Content, "📄 main.go\n```"))
	assert.Equal(t, "list files", got.Messages[2].Content)

	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, domain.DefaultReferer, headers.Get("HTTP-Referer"))
	assert.Equal(t, domain.DefaultTitle, headers.Get("X-Title"))
}

func TestCompleteMissingKeyMakesNoCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, "").Complete(context.Background(), domain.CompletionRequest{})
	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.False(t, called)
}

func TestCompleteSurfacesAPIMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, "sk-bad").Complete(context.Background(), domain.CompletionRequest{})
	var apiErr *domain.RemoteAPIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "No auth credentials found", apiErr.Error())
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, "sk-test").Complete(context.Background(), domain.CompletionRequest{})
	var apiErr *domain.RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, invalidResponseMessage, apiErr.Message)
}
