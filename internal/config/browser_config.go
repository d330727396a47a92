package config

// BrowserConfig defines configuration for the headless browser
type BrowserConfig struct {
	ChromePath             string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	UserDataDir            string `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	UserAgent              string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	PageLoadTimeoutSecs    int    `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"omitempty,min=1"`
	NetworkIdleTimeoutSecs int    `json:"network_idle_timeout_secs,omitempty" yaml:"network_idle_timeout_secs,omitempty" validate:"omitempty,min=1"`
	WaitAfterLoadMs        int    `json:"wait_after_load_ms,omitempty" yaml:"wait_after_load_ms,omitempty" validate:"omitempty,min=0"`
	WindowWidth            int    `json:"window_width,omitempty" yaml:"window_width,omitempty" validate:"omitempty,min=1"`
	WindowHeight           int    `json:"window_height,omitempty" yaml:"window_height,omitempty" validate:"omitempty,min=1"`
	DisableImages          bool   `json:"disable_images" yaml:"disable_images"`
}

// NewDefaultBrowserConfig creates default browser configuration
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		UserAgent:              "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		PageLoadTimeoutSecs:    60,
		NetworkIdleTimeoutSecs: 15,
		WaitAfterLoadMs:        1200,
		WindowWidth:            1366,
		WindowHeight:           900,
		DisableImages:          true,
	}
}
