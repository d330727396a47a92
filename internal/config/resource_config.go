package config

// ResourceConfig defines limits for the resource watchdog. A long-lived
// headless Chrome accumulates memory; when the thresholds trip, the watchdog
// asks the composition root to shut down cleanly rather than let the OOM
// killer take the whole process.
type ResourceConfig struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	MaxMemoryMB        int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=64"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	CPUThreshold       float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	CheckIntervalSecs  int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultResourceConfig creates default resource watchdog configuration
func NewDefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		Enabled:            true,
		MaxMemoryMB:        1024,
		SystemMemThreshold: 0.9,
		CPUThreshold:       0.95,
		CheckIntervalSecs:  30,
	}
}
