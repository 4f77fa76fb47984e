// Package openai implements insight.Generator against the OpenAI Chat
// Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/celestio/astromcp/pkg/insight"
	"github.com/celestio/astromcp/pkg/profile"
)

const (
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultTimeout bounds each completion request.
	DefaultTimeout = 60 * time.Second

	completionsPath = "/v1/chat/completions"

	maxCompletionTokens = 1000
	temperature         = 0.7
)

// Config holds configuration for the OpenAI client.
type Config struct {
	// APIKey authenticates against the API.
	APIKey string

	// Model is the completion model. Defaults to DefaultModel if empty.
	Model string

	// BaseURL overrides the API root, e.g. for a compatible proxy or a
	// test server. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Timeout bounds each request. Defaults to DefaultTimeout when zero.
	Timeout time.Duration
}

// Client wraps OpenAI's Chat Completions API as an insight generator.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OpenAI-backed insight generator.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Generate produces a reading for the profile. API failures surface to the
// caller as upstream errors; there is no retry.
func (c *Client) Generate(ctx context.Context, p *profile.Profile, question, timeframe string) (string, error) {
	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(p, question, timeframe)},
		},
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"**Astrological Insights for %s**\n\n%s\n\n---\n*Based on your birth details: %s*",
		p.Name, text, p.BirthInfo(),
	), nil
}

// CheckKey issues a minimal one-token completion to verify the configured
// API key. The result is advisory: callers log it at startup but never
// abort the process on failure.
func (c *Client) CheckKey(ctx context.Context) error {
	_, err := c.complete(ctx, chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: "test"}},
		MaxTokens: 1,
	})
	return err
}

// complete posts one chat completion request and returns the first choice's
// text.
func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", insight.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", insight.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", insight.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", insight.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai returned status %d: %s",
			insight.ErrUpstream, resp.StatusCode, apiErrorMessage(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", insight.ErrUpstream, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", insight.ErrUpstream, result.Error.Message)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no completion returned", insight.ErrUpstream)
	}

	return result.Choices[0].Message.Content, nil
}

// apiErrorMessage pulls the error message out of an API error body when
// present, falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var result chatResponse
	if err := json.Unmarshal(body, &result); err == nil && result.Error != nil {
		return result.Error.Message
	}
	return string(body)
}

var _ insight.Generator = (*Client)(nil)
