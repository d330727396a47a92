package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entradalert/internal/common"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.True(t, cfg.MonitorConfig.Enabled)
	assert.Equal(t, DefaultCheckIntervalSeconds, cfg.MonitorConfig.CheckIntervalSeconds)
	assert.Equal(t, 0, cfg.MonitorConfig.QuietHoursStart)
	assert.Equal(t, 9, cfg.MonitorConfig.QuietHoursEnd)
	assert.Equal(t, 18*30, cfg.DetectionConfig.MaxFutureDateDays)
	assert.Equal(t, 8, cfg.DetectionConfig.AncestorClimbLimit)
	assert.NotEmpty(t, cfg.MonitorConfig.Timezone)
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
monitor_config:
  target_urls:
    - https://ticketera.example.com/evento/gran-show
  check_interval_seconds: 120
  quiet_hours_start: 1
  quiet_hours_end: 8
detection_config:
  max_future_date_days: 365
vendor_profiles:
  - hostname: ticketera.example.com
    disable_global_scan: true
    soldout_keywords: ["localidades agotadas"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://ticketera.example.com/evento/gran-show"}, cfg.MonitorConfig.TargetURLs)
	assert.Equal(t, 120, cfg.MonitorConfig.CheckIntervalSeconds)
	assert.Equal(t, 365, cfg.DetectionConfig.MaxFutureDateDays)
	require.Len(t, cfg.VendorProfiles, 1)
	assert.True(t, cfg.VendorProfiles[0].DisableGlobalScan)
	assert.Contains(t, cfg.VendorProfiles[0].SoldoutKeywords, "localidades agotadas")

	// Untouched sections keep their defaults.
	assert.Equal(t, 8, cfg.DetectionConfig.AncestorClimbLimit)
}

func TestLoadGlobalConfig_MissingFile(t *testing.T) {
	_, err := LoadGlobalConfig("/nonexistent/entradalert.yaml")
	assert.Error(t, err)
}

func TestLoadGlobalConfig_DefaultSearch(t *testing.T) {
	dir := t.TempDir()
	content := "monitor_config:\n  check_interval_seconds: 240\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entradalert.yaml"), []byte(content), 0644))
	t.Chdir(dir)

	cfg, err := LoadGlobalConfig("")
	require.NoError(t, err)
	assert.Equal(t, 240, cfg.MonitorConfig.CheckIntervalSeconds)
}

func TestLoadGlobalConfig_DefaultSearchNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadGlobalConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCheckIntervalSeconds, cfg.MonitorConfig.CheckIntervalSeconds)
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	t.Setenv("ENTRADALERT_URLS", "https://a.example.com/x, https://b.example.com/y")

	cfg, err := LoadGlobalConfig("")
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.NotificationConfig.TelegramBotToken)
	assert.Equal(t, "-100200300", cfg.NotificationConfig.TelegramChatID)
	assert.Equal(t, []string{"https://a.example.com/x", "https://b.example.com/y"}, cfg.MonitorConfig.TargetURLs)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *GlobalConfig) {},
		},
		{
			name: "bad target url",
			mutate: func(cfg *GlobalConfig) {
				cfg.MonitorConfig.TargetURLs = []string{"not a url"}
			},
			wantErr: true,
		},
		{
			name: "quiet hours out of range",
			mutate: func(cfg *GlobalConfig) {
				cfg.MonitorConfig.QuietHoursEnd = 24
			},
			wantErr: true,
		},
		{
			name: "bad timezone",
			mutate: func(cfg *GlobalConfig) {
				cfg.MonitorConfig.Timezone = "Mars/Olympus"
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			mutate: func(cfg *GlobalConfig) {
				cfg.LogConfig.LogLevel = "loud"
			},
			wantErr: true,
		},
		{
			name: "vendor profile without hostname",
			mutate: func(cfg *GlobalConfig) {
				cfg.VendorProfiles = []VendorProfile{{SoldoutKeywords: []string{"agotado"}}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEffectiveCheckInterval(t *testing.T) {
	mc := MonitorConfig{CheckIntervalSeconds: 5}
	assert.Equal(t, MinCheckIntervalSeconds, mc.EffectiveCheckIntervalSeconds())

	mc.CheckIntervalSeconds = 600
	assert.Equal(t, 600, mc.EffectiveCheckIntervalSeconds())
}

func TestMissingCredentials(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.NotificationConfig.TelegramBotToken = ""
	cfg.NotificationConfig.TelegramChatID = ""
	missing := MissingCredentials(cfg)
	assert.Len(t, missing, 2)

	cfg.NotificationConfig.TelegramBotToken = "123:abc"
	cfg.NotificationConfig.TelegramChatID = "42"
	assert.Empty(t, MissingCredentials(cfg))
}
