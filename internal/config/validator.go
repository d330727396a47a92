package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"entradalert/internal/common"
	"entradalert/internal/urlhandler"
)

// ValidateConfig performs structural validation on the GlobalConfig.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Slices of URLs must all parse.
	_ = validate.RegisterValidation("urls", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		slice, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		for _, s := range slice {
			if err := urlhandler.ValidateURLFormat(s); err != nil {
				return false
			}
		}
		return true
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "debug", "info", "warn", "error", "fatal":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "json":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, err)
	}

	return nil
}

// MissingCredentials reports whether the notifier cannot send anything. The
// caller decides between degraded read-only mode and exiting; this only names
// the gap for the startup diagnostic.
func MissingCredentials(cfg *GlobalConfig) []string {
	var missing []string
	if cfg.NotificationConfig.TelegramBotToken == "" {
		missing = append(missing, "telegram_bot_token (or TELEGRAM_BOT_TOKEN)")
	}
	if cfg.NotificationConfig.TelegramChatID == "" {
		missing = append(missing, "telegram_chat_id (or TELEGRAM_CHAT_ID)")
	}
	return missing
}
