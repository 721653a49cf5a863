package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"schedbot/internal/booking"
	"schedbot/internal/calendar"
	"schedbot/internal/config"
	"schedbot/internal/google"
	"schedbot/internal/instrumentation"
	"schedbot/internal/llm"
	"schedbot/internal/planner"
	"schedbot/internal/schedule"
)

// setupLogger configures the process-wide logger. JSON output so log
// aggregators can index the structured attributes.
func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildPipeline wires the planner and booker into a pipeline from the
// given configuration. The calendar client factory acquires fresh
// credentials per booking batch, so an expired token fails the batch it
// belongs to rather than the process.
func buildPipeline(cfg config.Config, logger *slog.Logger, provider *instrumentation.Provider) (*schedule.Pipeline, error) {
	completer, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
	}, logger, llm.WithMetrics(provider.Metrics()))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	factory := func(ctx context.Context) (booking.CalendarService, error) {
		tokenSource, err := google.NewFileTokenSource(ctx, cfg.TokenFile, logger)
		if err != nil {
			return nil, err
		}
		return calendar.NewClient(ctx, tokenSource)
	}

	pipeline := schedule.NewPipeline(
		planner.New(completer, logger),
		booking.New(factory, cfg.CalendarID, logger, booking.WithMetrics(provider.Metrics())),
		logger,
		schedule.WithTracer(provider.Tracer("schedbot/pipeline")),
		schedule.WithMetrics(provider.Metrics()),
	)

	return pipeline, nil
}
