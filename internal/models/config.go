package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// EngineConfig holds alert engine settings
type EngineConfig struct {
	MaxAlerts      int
	ThresholdsFile string
}
