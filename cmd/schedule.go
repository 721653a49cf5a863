package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"schedbot/internal/config"
	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
	"schedbot/internal/telegram"
)

func newScheduleCmd() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "schedule [instruction...]",
		Short: "Run one scheduling instruction and print the summary",
		Long: `Run the planning and booking pipeline once for the given free-text
instruction and print the outcome summary to stdout.

If a Telegram token and chat id are configured, the summary is also
sent to that chat. Example:

  schedbot schedule "lunch with Sam tomorrow at noon"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfigEnvVars(cmd, &cfg)
			cfg.ApplyDefaults()
			if err := cfg.ValidateForSchedule(); err != nil {
				return err
			}
			return runSchedule(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}

	addScheduleFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.TelegramToken, "telegram-token", "", "Telegram bot token for sending the summary. Can also use TELEGRAM_BOT_TOKEN env var.")
	cmd.Flags().Int64Var(&cfg.DefaultChatID, "chat-id", 0, "Chat to send the summary to. Can also use TELEGRAM_CHAT_ID env var.")

	return cmd
}

func runSchedule(ctx context.Context, cfg config.Config, instruction string) error {
	logger := setupLogger(cfg.Debug)

	// One-shot runs have nothing to scrape, so instrumentation stays off.
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "schedbot",
		ServiceVersion:  version,
		TracingExporter: instrumentation.ExporterNone,
	})
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	pipeline, err := buildPipeline(cfg, logger, provider)
	if err != nil {
		return err
	}

	summary := pipeline.Run(ctx, instruction)
	fmt.Println(summary)

	if cfg.TelegramToken != "" && cfg.DefaultChatID != 0 {
		notifier, err := telegram.NewNotifier(cfg.TelegramToken, logger,
			telegram.WithMetrics(provider.Metrics()))
		if err != nil {
			return fmt.Errorf("failed to create telegram notifier: %w", err)
		}
		if err := notifier.Send(ctx, cfg.DefaultChatID, summary); err != nil {
			return fmt.Errorf("failed to send summary: %w", err)
		}
	}

	return nil
}
