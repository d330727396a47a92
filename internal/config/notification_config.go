package config

// NotificationConfig defines configuration for outbound Telegram notifications
type NotificationConfig struct {
	TelegramBotToken string `json:"telegram_bot_token,omitempty" yaml:"telegram_bot_token,omitempty"`
	TelegramChatID   string `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id,omitempty"`
	Signature        string `json:"signature,omitempty" yaml:"signature,omitempty"`
	NotifyOnStartup  bool   `json:"notify_on_startup" yaml:"notify_on_startup"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Signature:       "— entradalert",
		NotifyOnStartup: true,
	}
}
