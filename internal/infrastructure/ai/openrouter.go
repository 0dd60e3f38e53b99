// Package ai talks to the remote chat-completion backend.
package ai

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

const invalidResponseMessage = "Invalid response from OpenRouter API"

// OpenRouterClient implements ports.CompletionBackend over an OpenAI-compatible API.
type OpenRouterClient struct {
	endpoint   string
	model      string
	authEnvVar string
	maxTokens  int
	timeout    time.Duration
	httpClient *http.Client
	apiKey     func() string
}

// Option customizes an OpenRouterClient.
type Option func(*OpenRouterClient)

// WithHTTPClient replaces the transport's base client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenRouterClient) { c.httpClient = client }
}

// WithAPIKey supplies the key directly instead of reading the configured environment variable.
func WithAPIKey(key string) Option {
	return func(c *OpenRouterClient) { c.apiKey = func() string { return key } }
}

// NewOpenRouterClient builds a client from the completion section of cfg.
func NewOpenRouterClient(cfg domain.Config, opts ...Option) *OpenRouterClient {
	c := &OpenRouterClient{
		endpoint:   cfg.GetCompletionEndpoint(),
		model:      cfg.GetModel(),
		authEnvVar: cfg.GetAuthEnvVar(),
		maxTokens:  cfg.GetMaxTokens(),
		timeout:    cfg.GetCompletionTimeout(),
		httpClient: &http.Client{},
	}
	c.apiKey = func() string { return resolveAuth(c.authEnvVar, domain.DefaultAuthEnvVar) }

	referer := valueOrDefault(cfg.Completion.Referer, domain.DefaultReferer)
	title := valueOrDefault(cfg.Completion.Title, domain.DefaultTitle)
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *c.httpClient
	wrapped.Transport = &headerTransport{base: base, referer: referer, title: title}
	c.httpClient = &wrapped
	return c
}

// Model returns the configured model id.
func (c *OpenRouterClient) Model() string {
	return c.model
}

// Complete implements ports.CompletionBackend.
func (c *OpenRouterClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	key := c.apiKey()
	if key == "" {
		return "", domain.ErrMissingAPIKey
	}

	system, err := renderSystemMessage(req)
	if err != nil {
		return "", err
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(msg.Role), Content: msg.Content})
	}

	clientConfig := openai.DefaultConfig(key)
	clientConfig.BaseURL = c.endpoint
	clientConfig.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", translateError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.RemoteAPIError{Message: invalidResponseMessage}
	}
	return resp.Choices[0].Message.Content, nil
}

func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = invalidResponseMessage
		}
		return &domain.RemoteAPIError{Message: msg, StatusCode: apiErr.HTTPStatusCode}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RemoteAPIError{Message: invalidResponseMessage, StatusCode: reqErr.HTTPStatusCode}
	}
	return err
}

// headerTransport adds the attribution headers OpenRouter uses to identify the calling app.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("HTTP-Referer", t.referer)
	clone.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(clone)
}

var _ ports.CompletionBackend = (*OpenRouterClient)(nil)
