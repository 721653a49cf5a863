package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
)

// openaiClient speaks the OpenAI-compatible chat completions API.
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// ClientOption configures an OpenAI client.
type ClientOption func(*openaiClient)

// WithMetrics sets the metrics recorder for external-call instrumentation.
func WithMetrics(metrics *instrumentation.Metrics) ClientOption {
	return func(c *openaiClient) { c.metrics = metrics }
}

// WithHTTPClient overrides the HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *openaiClient) { c.httpClient = httpClient }
}

// NewOpenAIClient constructs a Completer that speaks the OpenAI-compatible
// chat completions API using the provided configuration.
func NewOpenAIClient(config Config, logger *slog.Logger, opts ...ClientOption) (Completer, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("llm base URL is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	timeout := DefaultTimeout
	if config.Timeout > 0 {
		timeout = config.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &openaiClient{
		model:      config.Model,
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.WithService(logger, "llm"),
		metrics:    &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one non-streaming chat completion request and returns the
// raw text of the first choice.
func (c *openaiClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, prompt)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	c.metrics.RecordExternalCall(ctx, "llm", status, time.Since(start))
	c.logger.Debug("completion finished",
		logging.Operation("complete"),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Err(err),
	)

	return text, err
}

func (c *openaiClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, truncate(string(respBody), 256))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
