package bot

import (
	"context"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog"

	"entradalert/internal/config"
	"entradalert/internal/notifier"
)

// Poller long-polls the Telegram getUpdates API and dispatches commands.
// Replies always go out to the asking chat; quiet hours never apply to a
// direct question.
type Poller struct {
	client   *notifier.TelegramClient
	cfg      config.BotConfig
	handler  *CommandHandler
	logger   zerolog.Logger
	offset   int64
	lastSeen time.Time
	now      func() time.Time
}

// NewPoller creates a new bot poller
func NewPoller(client *notifier.TelegramClient, cfg config.BotConfig, handler *CommandHandler, logger zerolog.Logger) *Poller {
	return &Poller{
		client:  client,
		cfg:     cfg,
		handler: handler,
		logger:  logger.With().Str("component", "BotPoller").Logger(),
		now:     time.Now,
	}
}

// Run polls until the context is cancelled. Transient API failures back off
// and retry instead of killing the loop.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Int("poll_timeout_secs", p.cfg.PollTimeoutSecs).Msg("Bot poller started")

	for ctx.Err() == nil {
		updates, err := p.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error().Err(err).Msg("Polling gave up after retries")
			continue
		}
		for _, update := range updates {
			p.dispatch(ctx, update)
		}
	}
	p.logger.Info().Msg("Bot poller stopped")
}

func (p *Poller) poll(ctx context.Context) ([]notifier.Update, error) {
	var updates []notifier.Update
	err := retry.Do(
		func() error {
			var err error
			updates, err = p.client.GetUpdates(ctx, p.offset, p.cfg.PollTimeoutSecs)
			return err
		},
		retry.Attempts(10),
		retry.Delay(time.Second),
		retry.MaxDelay(2*time.Minute),
		retry.MaxJitter(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn().Uint("attempt", n+1).Err(err).Msg("getUpdates failed, retrying")
		}),
	)
	return updates, err
}

func (p *Poller) dispatch(ctx context.Context, update notifier.Update) {
	if update.UpdateID >= p.offset {
		p.offset = update.UpdateID + 1
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	if !p.chatAllowed(chatID) {
		p.logger.Warn().Int64("chat_id", chatID).Msg("Ignoring command from unauthorized chat")
		return
	}
	if p.onCooldown() {
		return
	}

	reply := p.handler.Handle(ctx, update.Message.Text)
	if reply == "" {
		return
	}
	p.lastSeen = p.now()

	if err := p.client.SendMessage(ctx, formatChatID(chatID), reply); err != nil {
		p.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send command reply")
	}
}

func formatChatID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// chatAllowed applies the allowlist; an empty allowlist accepts any chat.
func (p *Poller) chatAllowed(chatID int64) bool {
	if len(p.cfg.AllowedChatIDs) == 0 {
		return true
	}
	for _, allowed := range p.cfg.AllowedChatIDs {
		if allowed == chatID {
			return true
		}
	}
	return false
}

// onCooldown throttles command handling so a pasted burst of commands does
// not queue up a browser session per line.
func (p *Poller) onCooldown() bool {
	if p.cfg.CommandCooldownS <= 0 || p.lastSeen.IsZero() {
		return false
	}
	return p.now().Sub(p.lastSeen) < time.Duration(p.cfg.CommandCooldownS)*time.Second
}
