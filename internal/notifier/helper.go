package notifier

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"entradalert/internal/config"
	"entradalert/internal/monitor"
)

// NotificationHelper is the outbound side of the service: it formats
// transition messages, enforces quiet hours, and delivers via Telegram.
// Delivery failures are logged, never retried; the next transition will
// carry the news.
type NotificationHelper struct {
	client    *TelegramClient
	chatID    string
	formatter Formatter
	quiet     QuietHours
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationHelper creates a new notification helper
func NewNotificationHelper(
	client *TelegramClient,
	notificationCfg config.NotificationConfig,
	monitorCfg config.MonitorConfig,
	logger zerolog.Logger,
) (*NotificationHelper, error) {
	quiet, err := NewQuietHours(monitorCfg)
	if err != nil {
		return nil, err
	}
	return &NotificationHelper{
		client:    client,
		chatID:    notificationCfg.TelegramChatID,
		formatter: Formatter{Signature: notificationCfg.Signature},
		quiet:     quiet,
		logger:    logger.With().Str("component", "NotificationHelper").Logger(),
		now:       time.Now,
	}, nil
}

// Formatter exposes the shared message formatter so bot replies match the
// monitor's look.
func (h *NotificationHelper) Formatter() Formatter {
	return h.formatter
}

// NotifyTransition implements monitor.Notifier.
func (h *NotificationHelper) NotifyTransition(ctx context.Context, change monitor.StateChange) {
	h.Send(ctx, h.formatter.FormatTransition(change), change.Forced)
}

// NotifyStartup announces the service start when configured to do so.
func (h *NotificationHelper) NotifyStartup(ctx context.Context, targets []string) {
	h.Send(ctx, h.formatter.FormatStartup(targets), false)
}

// Send delivers a pre-formatted message. Non-forced messages are swallowed
// during quiet hours.
func (h *NotificationHelper) Send(ctx context.Context, text string, force bool) {
	if !force && h.quiet.Contains(h.now()) {
		h.logger.Debug().Msg("Message suppressed by quiet hours")
		return
	}
	if err := h.client.SendMessage(ctx, h.chatID, text); err != nil {
		h.logger.Error().Err(err).Msg("Failed to deliver Telegram message")
	}
}
