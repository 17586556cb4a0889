package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Scrapbox ScrapboxConfig `mapstructure:"scrapbox"`
	Gyazo    GyazoConfig    `mapstructure:"gyazo"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Bulk     BulkConfig     `mapstructure:"bulk"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ScrapboxConfig holds the Scrapbox origin
type ScrapboxConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// GyazoConfig holds the Gyazo origins used to resolve embedded images
type GyazoConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIURL  string `mapstructure:"api_url"`
}

// HTTPConfig contains transport settings
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// BulkConfig contains settings for fetching a whole project listing
type BulkConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// AuthConfig holds the session credential. ConnectSID wins over
// ConnectSIDFile when both are set.
type AuthConfig struct {
	ConnectSID     string `mapstructure:"connect_sid"`
	ConnectSIDFile string `mapstructure:"connect_sid_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
