package config

// DetectionConfig tunes the availability-detection heuristics
type DetectionConfig struct {
	// MaxFutureDateDays bounds how far ahead an extracted date may fall and
	// still count as a show date. Anything beyond it is treated as noise
	// (footer legal text, copyright years).
	MaxFutureDateDays int `json:"max_future_date_days,omitempty" yaml:"max_future_date_days,omitempty" validate:"omitempty,min=1"`
	// AncestorClimbLimit bounds how many ancestors the region locator climbs
	// when expanding a matched node into its enclosing block.
	AncestorClimbLimit int `json:"ancestor_climb_limit,omitempty" yaml:"ancestor_climb_limit,omitempty" validate:"omitempty,min=1,max=20"`
	// DropdownSettleMs is how long to wait after clicking a dropdown trigger
	// for the popover to mount.
	DropdownSettleMs int `json:"dropdown_settle_ms,omitempty" yaml:"dropdown_settle_ms,omitempty" validate:"omitempty,min=0"`
	// SniffWindowSecs is the bounded window for passive network response
	// sniffing during sector extraction.
	SniffWindowSecs int `json:"sniff_window_secs,omitempty" yaml:"sniff_window_secs,omitempty" validate:"omitempty,min=1"`
	// MaxSectorsPerDate caps how many sectors a diagnostic reply lists per date.
	MaxSectorsPerDate int `json:"max_sectors_per_date,omitempty" yaml:"max_sectors_per_date,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultDetectionConfig creates default detection configuration
func NewDefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		MaxFutureDateDays:  18 * 30,
		AncestorClimbLimit: 8,
		DropdownSettleMs:   250,
		SniffWindowSecs:    6,
		MaxSectorsPerDate:  12,
	}
}
