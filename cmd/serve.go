package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"schedbot/internal/config"
	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
	"schedbot/internal/server"
	"schedbot/internal/telegram"
)

func newServeCmd() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Telegram webhook server",
		Long: `Start the webhook server that receives Telegram updates, plans events
with the configured LLM, books them in Google Calendar, and sends a
summary back to the requesting chat.

Configuration:
  Telegram:
    --telegram-token OR TELEGRAM_BOT_TOKEN env var (required)

  LLM:
    --llm-api-key OR OPENAI_API_KEY env var (required)
    --llm-base-url, --llm-model for OpenAI-compatible endpoints

  Google Calendar:
    --token-file OR GOOGLE_TOKEN_FILE env var (required)
    Authorized-user JSON with client_id, client_secret, refresh_token
    --calendar-id for a calendar other than "primary"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfigEnvVars(cmd, &cfg)
			cfg.ApplyDefaults()
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	addScheduleFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.TelegramToken, "telegram-token", "", "Telegram bot token. Can also use TELEGRAM_BOT_TOKEN env var.")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", config.DefaultHTTPAddr, "Webhook server address. Can also use HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// addScheduleFlags registers the flags shared by serve and schedule.
func addScheduleFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.LLMAPIKey, "llm-api-key", "", "API key for the completion service. Can also use OPENAI_API_KEY env var.")
	cmd.Flags().StringVar(&cfg.LLMBaseURL, "llm-base-url", config.DefaultLLMBaseURL, "OpenAI-compatible API base URL. Can also use OPENAI_BASE_URL env var.")
	cmd.Flags().StringVar(&cfg.LLMModel, "llm-model", config.DefaultLLMModel, "Completion model used for planning. Can also use OPENAI_MODEL env var.")
	cmd.Flags().StringVar(&cfg.TokenFile, "token-file", "", "Path to the Google authorized-user credential file. Can also use GOOGLE_TOKEN_FILE env var.")
	cmd.Flags().StringVar(&cfg.CalendarID, "calendar-id", config.DefaultCalendarID, "Calendar events are created in. Can also use GOOGLE_CALENDAR_ID env var.")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
}

// loadConfigEnvVars fills configuration from environment variables.
// Environment variables only apply when the flag was not explicitly set.
func loadConfigEnvVars(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("telegram-token") && cfg.TelegramToken == "" {
		cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if !cmd.Flags().Changed("llm-api-key") && cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if !cmd.Flags().Changed("llm-base-url") {
		cfg.LLMBaseURL = config.EnvOrDefault("OPENAI_BASE_URL", cfg.LLMBaseURL)
	}
	if !cmd.Flags().Changed("llm-model") {
		cfg.LLMModel = config.EnvOrDefault("OPENAI_MODEL", cfg.LLMModel)
	}
	if !cmd.Flags().Changed("token-file") && cfg.TokenFile == "" {
		cfg.TokenFile = os.Getenv("GOOGLE_TOKEN_FILE")
	}
	if !cmd.Flags().Changed("calendar-id") {
		cfg.CalendarID = config.EnvOrDefault("GOOGLE_CALENDAR_ID", cfg.CalendarID)
	}
	if cmd.Flags().Lookup("http-addr") != nil && !cmd.Flags().Changed("http-addr") {
		cfg.HTTPAddr = config.EnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	}
	if cmd.Flags().Lookup("metrics-addr") != nil && !cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = config.EnvOrDefault("METRICS_ADDR", cfg.MetricsAddr)
	}
	if cmd.Flags().Lookup("metrics-enabled") != nil && !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				cfg.MetricsEnabled = parsed
			}
		}
	}
	if cmd.Flags().Lookup("chat-id") != nil && !cmd.Flags().Changed("chat-id") && cfg.DefaultChatID == 0 {
		if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				cfg.DefaultChatID = id
			}
		}
	}
}

func runServe(cfg config.Config) error {
	logger := setupLogger(cfg.Debug)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	pipeline, err := buildPipeline(cfg, logger, provider)
	if err != nil {
		return err
	}

	notifier, err := telegram.NewNotifier(cfg.TelegramToken, logger,
		telegram.WithMetrics(provider.Metrics()))
	if err != nil {
		return fmt.Errorf("failed to create telegram notifier: %w", err)
	}

	srv := server.New(cfg.HTTPAddr, pipeline, notifier, logger,
		server.WithMetrics(provider.Metrics()))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down webhook server: %w", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("webhook server stopped with error: %w", err)
		}
	}

	logger.Info("webhook server stopped")
	return nil
}
