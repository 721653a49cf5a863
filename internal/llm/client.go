package llm

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 120 * time.Second

// Completer is the contract the planner requires from a language-model
// service: one synchronous, non-streaming completion per call.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds the settings for an OpenAI-compatible completion client.
type Config struct {
	// APIKey is sent as a bearer token. Optional for local endpoints.
	APIKey string

	// BaseURL is the API base, e.g. "https://api.openai.com/v1".
	BaseURL string

	// Model is the completion model identifier.
	Model string

	// Timeout bounds the HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration
}
