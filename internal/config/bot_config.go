package config

// BotConfig defines configuration for the inbound Telegram command poller
type BotConfig struct {
	Enabled          bool    `json:"enabled" yaml:"enabled"`
	PollTimeoutSecs  int     `json:"poll_timeout_secs,omitempty" yaml:"poll_timeout_secs,omitempty" validate:"omitempty,min=1,max=60"`
	AllowedChatIDs   []int64 `json:"allowed_chat_ids,omitempty" yaml:"allowed_chat_ids,omitempty"`
	CommandCooldownS int     `json:"command_cooldown_secs,omitempty" yaml:"command_cooldown_secs,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultBotConfig creates default bot configuration
func NewDefaultBotConfig() BotConfig {
	return BotConfig{
		Enabled:          true,
		PollTimeoutSecs:  30,
		CommandCooldownS: 2,
	}
}
