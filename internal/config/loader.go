package config

import (
	"os"
	"strings"

	"entradalert/internal/common"
)

const maxConfigFileSize = 10 * 1024 * 1024 // 10MB

// defaultConfigPaths are the filenames tried, in order, when no config path
// is given. Paths are relative to the working directory.
var defaultConfigPaths = []string{
	"entradalert.yaml",
	"entradalert.yml",
	"config.yaml",
	"config.yml",
	"config.json",
}

// findDefaultConfig returns the first default config file that exists, or
// empty when none does.
func findDefaultConfig() string {
	for _, path := range defaultConfigPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// readConfigFile reads a config file with a size guard.
func readConfigFile(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to stat config file '%s'", filePath)
	}
	if info.Size() > maxConfigFileSize {
		return nil, common.NewValidationError("config_file", filePath, "config file exceeds maximum size")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read config file '%s'", filePath)
	}
	return data, nil
}

// applyEnvOverrides fills credentials from the environment. Environment values
// win over file values so secrets never need to live in the YAML.
func applyEnvOverrides(cfg *GlobalConfig) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.NotificationConfig.TelegramBotToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		cfg.NotificationConfig.TelegramChatID = chatID
	}
	if urls := os.Getenv("ENTRADALERT_URLS"); urls != "" {
		var targets []string
		for _, u := range strings.Split(urls, ",") {
			if trimmed := strings.TrimSpace(u); trimmed != "" {
				targets = append(targets, trimmed)
			}
		}
		cfg.MonitorConfig.TargetURLs = targets
	}
}
