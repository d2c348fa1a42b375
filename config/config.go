package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/remuxapp/remux/media"
	"github.com/remuxapp/remux/server"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

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
			v.AddConfigPath(filepath.Join(home, ".remux"))
		}

		// Check /etc
		v.AddConfigPath("/etc/remux/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.kind", "jellyfin")

	// Device defaults
	v.SetDefault("device.name", "Remux")
	v.SetDefault("device.id", "remux-cli")
	v.SetDefault("device.version", "")

	// Capability defaults match what common hardware decodes
	v.SetDefault("capabilities.h264", true)
	v.SetDefault("capabilities.vp9", false)
	v.SetDefault("capabilities.av1", false)
	v.SetDefault("capabilities.hevc", false)
	v.SetDefault("capabilities.aac", true)
	v.SetDefault("capabilities.opus", false)
	v.SetDefault("capabilities.mp3", true)
	v.SetDefault("capabilities.flac", false)
	v.SetDefault("capabilities.eac3", false)
	v.SetDefault("capabilities.hls", true)
	v.SetDefault("capabilities.webvtt", true)

	// Client defaults
	v.SetDefault("client.limit", media.DefaultLimit)
	v.SetDefault("client.timeout_seconds", 30)

	// Cache defaults
	v.SetDefault("cache.ttl_seconds", 360)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	switch cfg.Server.Kind {
	case server.KindJellyfin:
		if cfg.Server.Host == "" {
			return fmt.Errorf("server.host is required")
		}
		if cfg.Server.Username == "" && cfg.Server.Token == "" {
			return fmt.Errorf("server.username or server.token is required")
		}
	case server.KindStremio:
		// Addons default to Cinemeta when empty
	default:
		return fmt.Errorf("invalid server kind: %q", cfg.Server.Kind)
	}

	if cfg.Client.Limit <= 0 {
		return fmt.Errorf("client.limit must be positive")
	}

	if cfg.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative")
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
