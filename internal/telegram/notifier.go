package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"schedbot/internal/instrumentation"
	"schedbot/internal/logging"
)

// Notifier delivers pipeline summaries to a Telegram chat.
//
// Delivery is fire-and-forget from the pipeline's point of view: the caller
// logs a failed send but does not alter its own outcome because of it.
type Notifier struct {
	bot     *tele.Bot
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithMetrics sets the metrics recorder for external-call instrumentation.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(n *Notifier) { n.metrics = metrics }
}

// NewNotifier creates a Notifier for the given bot token. The bot is
// constructed offline: no network call happens until the first send.
func NewNotifier(token string, logger *slog.Logger, opts ...Option) (*Notifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, err
	}

	return applyOptions(&Notifier{
		bot:     bot,
		logger:  logging.WithService(logger, "telegram"),
		metrics: &instrumentation.Metrics{},
	}, opts), nil
}

func applyOptions(n *Notifier, opts []Option) *Notifier {
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Send delivers one text message to the chat.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	start := time.Now()
	_, err := n.bot.Send(&tele.Chat{ID: chatID}, text, &tele.SendOptions{
		DisableWebPagePreview: true,
	})

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
		n.logger.Warn("notification send failed",
			logging.Operation("send"), logging.ChatID(chatID), logging.Err(err))
	} else {
		n.logger.Debug("notification sent",
			logging.Operation("send"), logging.ChatID(chatID))
	}
	n.metrics.RecordExternalCall(ctx, "telegram", status, time.Since(start))

	return err
}
