package config

// StorageConfig defines configuration for target-state persistence
type StorageConfig struct {
	// SQLiteDBPath is where last-known statuses and check history live.
	// Empty disables persistence; state then only lives for the process.
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
	// HistoryRetentionDays prunes check-history rows older than this.
	HistoryRetentionDays int `json:"history_retention_days,omitempty" yaml:"history_retention_days,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath:         "data/entradalert.db",
		HistoryRetentionDays: 90,
	}
}
