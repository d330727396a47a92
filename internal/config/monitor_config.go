package config

// MonitorConfig defines configuration for the availability monitoring loop
type MonitorConfig struct {
	Enabled              bool     `json:"enabled" yaml:"enabled"`
	TargetURLs           []string `json:"target_urls,omitempty" yaml:"target_urls,omitempty" validate:"omitempty,urls"`
	CheckIntervalSeconds int      `json:"check_interval_seconds,omitempty" yaml:"check_interval_seconds,omitempty" validate:"omitempty,min=1"`
	QuietHoursStart      int      `json:"quiet_hours_start" yaml:"quiet_hours_start" validate:"min=0,max=23"`
	QuietHoursEnd        int      `json:"quiet_hours_end" yaml:"quiet_hours_end" validate:"min=0,max=23"`
	Timezone             string   `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	NotifyOnDetailChange bool     `json:"notify_on_detail_change" yaml:"notify_on_detail_change"`
}

const (
	// MinCheckIntervalSeconds is the floor for the inter-cycle sleep. Vendors
	// run anti-bot defenses; checking more often than this gets targets blocked.
	MinCheckIntervalSeconds = 30
	// DefaultCheckIntervalSeconds is the default inter-cycle sleep.
	DefaultCheckIntervalSeconds = 300
)

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:              true,
		TargetURLs:           []string{},
		CheckIntervalSeconds: DefaultCheckIntervalSeconds,
		QuietHoursStart:      0,
		QuietHoursEnd:        9,
		Timezone:             "America/Argentina/Buenos_Aires",
		NotifyOnDetailChange: false,
	}
}

// EffectiveCheckIntervalSeconds returns the configured interval clamped to the floor.
func (mc MonitorConfig) EffectiveCheckIntervalSeconds() int {
	if mc.CheckIntervalSeconds < MinCheckIntervalSeconds {
		return MinCheckIntervalSeconds
	}
	return mc.CheckIntervalSeconds
}
