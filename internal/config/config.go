package config

import (
	"fmt"
	"os"
)

// Default values for optional settings.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = ":9090"
	DefaultCalendarID  = "primary"
	DefaultLLMBaseURL  = "https://api.openai.com/v1"
	DefaultLLMModel    = "gpt-5-mini"
)

// Config holds the complete runtime configuration for schedbot.
//
// Every external secret and path is collected here once at startup; packages
// never read the process environment at call sites.
type Config struct {
	// TelegramToken is the bot token used for outbound notifications.
	TelegramToken string

	// DefaultChatID is the chat notified by the one-shot schedule command.
	// The webhook path always replies to the requesting chat instead.
	DefaultChatID int64

	// LLMAPIKey authenticates against the completion service.
	LLMAPIKey string

	// LLMBaseURL is the OpenAI-compatible API base URL.
	LLMBaseURL string

	// LLMModel is the completion model used for planning.
	LLMModel string

	// TokenFile is the path to the Google authorized-user credential file.
	TokenFile string

	// CalendarID is the calendar events are created in.
	CalendarID string

	// HTTPAddr is the webhook server listen address.
	HTTPAddr string

	// MetricsAddr is the dedicated metrics server listen address.
	MetricsAddr string

	// MetricsEnabled controls whether the metrics server is started.
	MetricsEnabled bool

	// Debug enables debug-level logging.
	Debug bool
}

// ApplyDefaults fills in zero values with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = DefaultMetricsAddr
	}
	if c.CalendarID == "" {
		c.CalendarID = DefaultCalendarID
	}
	if c.LLMBaseURL == "" {
		c.LLMBaseURL = DefaultLLMBaseURL
	}
	if c.LLMModel == "" {
		c.LLMModel = DefaultLLMModel
	}
}

// ValidateForServe checks that everything the webhook server needs is present.
// Missing secrets are a startup-time hard failure, not a per-request one.
func (c *Config) ValidateForServe() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram bot token is required (set TELEGRAM_BOT_TOKEN or --telegram-token)")
	}
	return c.ValidateForSchedule()
}

// ValidateForSchedule checks the subset of configuration needed to run the
// pipeline without the Telegram surface.
func (c *Config) ValidateForSchedule() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM API key is required (set OPENAI_API_KEY or --llm-api-key)")
	}
	if c.TokenFile == "" {
		return fmt.Errorf("google token file path is required (set GOOGLE_TOKEN_FILE or --token-file)")
	}
	return nil
}

// EnvOrDefault returns the value of the environment variable if set,
// otherwise the fallback.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
