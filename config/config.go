package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SBC_LOGGING_LEVEL
const EnvPrefix = "SBC"

// Load loads the configuration. An explicit configPath must exist; otherwise
// the standard locations are searched and a missing file means defaults.
// Environment variables (and a .env file in the working directory) override
// file values.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// SBC_CONNECT_SID is the documented short form
	if err := v.BindEnv("auth.connect_sid", EnvPrefix+"_AUTH_CONNECT_SID", EnvPrefix+"_CONNECT_SID"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sbc"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sbc/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Auth.ConnectSIDFile = ExpandHome(cfg.Auth.ConnectSIDFile)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Endpoints
	v.SetDefault("scrapbox.base_url", "https://scrapbox.io")
	v.SetDefault("gyazo.base_url", "https://gyazo.com")
	v.SetDefault("gyazo.api_url", "https://api.gyazo.com")

	// Transport
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.user_agent", "sbc/1.0")

	v.SetDefault("bulk.batch_size", 1000)

	v.SetDefault("auth.connect_sid", "")
	v.SetDefault("auth.connect_sid_file", DefaultConnectSIDFile())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid. Callers that override
// values after Load should validate again.
func Validate(cfg *Config) error {
	urls := map[string]string{
		"scrapbox.base_url": cfg.Scrapbox.BaseURL,
		"gyazo.base_url":    cfg.Gyazo.BaseURL,
		"gyazo.api_url":     cfg.Gyazo.APIURL,
	}
	for key, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL: %q", key, raw)
		}
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive: %s", cfg.HTTP.Timeout)
	}

	if cfg.Bulk.BatchSize <= 0 {
		return fmt.Errorf("bulk.batch_size must be positive: %d", cfg.Bulk.BatchSize)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
