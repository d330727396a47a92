package config

import (
	"encoding/json"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"entradalert/internal/common"
	"entradalert/internal/logger"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	DetectionConfig    DetectionConfig    `json:"detection_config,omitempty" yaml:"detection_config,omitempty"`
	BrowserConfig      BrowserConfig      `json:"browser_config,omitempty" yaml:"browser_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	BotConfig          BotConfig          `json:"bot_config,omitempty" yaml:"bot_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	ResourceConfig     ResourceConfig     `json:"resource_config,omitempty" yaml:"resource_config,omitempty"`
	LogConfig          logger.LogConfig   `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	VendorProfiles     []VendorProfile    `json:"vendor_profiles,omitempty" yaml:"vendor_profiles,omitempty" validate:"omitempty,dive"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		MonitorConfig:      NewDefaultMonitorConfig(),
		DetectionConfig:    NewDefaultDetectionConfig(),
		BrowserConfig:      NewDefaultBrowserConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		BotConfig:          NewDefaultBotConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
		ResourceConfig:     NewDefaultResourceConfig(),
		LogConfig:          logger.NewDefaultLogConfig(),
	}
}

// LoadGlobalConfig loads configuration from a YAML or JSON file, applies
// environment overrides for credentials, and returns the merged result.
// An empty path searches the working directory for the default filenames;
// with no hit, defaults plus environment overrides are returned.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath == "" {
		providedPath = findDefaultConfig()
	}
	if providedPath != "" {
		data, err := readConfigFile(providedPath)
		if err != nil {
			return nil, common.WrapError(err, "failed to load config file content")
		}
		if err := parseConfigContent(data, providedPath, cfg); err != nil {
			return nil, common.WrapError(err, "failed to parse config content")
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
