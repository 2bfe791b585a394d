// Package llm talks to OpenAI-compatible chat completion endpoints.
package llm

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

	"github.com/terraincognita07/venus/internal/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	OpenAIBaseURL = "https://api.openai.com/v1"
	OpenAIModel   = "gpt-4o"
	GrokBaseURL   = "https://api.x.ai/v1"
	GrokModel     = "grok-3-mini-latest"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048

	defaultTimeout   = 60 * time.Second
	maxResponseBytes = 1 << 20
	maxErrorBodySize = 512
)

var (
	ErrNotConfigured = errors.New("llm api key not configured")
	ErrEmptyResponse = errors.New("llm returned no choices")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	Content string
	Usage   Usage
}

// StatusError is returned for non-2xx answers. Body is truncated.
type StatusError struct {
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("llm request failed with status %d: %s", err.StatusCode, err.Body)
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func NewClient(options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	temperature := options.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	return &Client{
		baseURL:     strings.TrimSuffix(strings.TrimSpace(options.BaseURL), "/"),
		apiKey:      strings.TrimSpace(options.APIKey),
		model:       strings.TrimSpace(options.Model),
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  httpClient,
	}
}

// NewClientFromConfig fills provider defaults for base URL and model.
func NewClientFromConfig(cfg config.LLMConfig) *Client {
	baseURL, model := OpenAIBaseURL, OpenAIModel
	if cfg.Provider == config.ProviderGrok {
		baseURL, model = GrokBaseURL, GrokModel
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		model = cfg.Model
	}
	return NewClient(Options{BaseURL: baseURL, APIKey: cfg.APIKey, Model: model})
}

func (client *Client) Configured() bool {
	return client != nil && client.apiKey != ""
}

func (client *Client) Model() string {
	return client.model
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Complete sends one chat completion request. There are no retries.
func (client *Client) Complete(ctx context.Context, messages []Message) (Response, error) {
	if !client.Configured() {
		return Response{}, ErrNotConfigured
	}

	payload, err := json.Marshal(completionRequest{
		Model:       client.model,
		Messages:    messages,
		Temperature: client.temperature,
		MaxTokens:   client.maxTokens,
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.apiKey)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := string(body)
		if len(snippet) > maxErrorBodySize {
			snippet = snippet[:maxErrorBodySize]
		}
		return Response{}, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Content: decoded.Choices[0].Message.Content,
		Usage:   decoded.Usage,
	}, nil
}
