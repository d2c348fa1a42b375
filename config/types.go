package config

import (
	"github.com/remuxapp/remux/capabilities"
	"github.com/remuxapp/remux/server"
)

// Config represents the complete configuration structure
type Config struct {
	Server       server.Config             `mapstructure:"server"`
	Capabilities capabilities.Capabilities `mapstructure:"capabilities"`
	Device       DeviceConfig              `mapstructure:"device"`
	Client       ClientConfig              `mapstructure:"client"`
	Cache        CacheConfig               `mapstructure:"cache"`
	Filter       FilterConfig              `mapstructure:"filter"`
	Logging      LoggingConfig             `mapstructure:"logging"`
}

// DeviceConfig identifies this installation to the media server
type DeviceConfig struct {
	Name    string `mapstructure:"name"`
	ID      string `mapstructure:"id"`
	Version string `mapstructure:"version"`
}

// ClientConfig contains request tuning settings
type ClientConfig struct {
	Limit          int `mapstructure:"limit"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// CacheConfig contains query cache settings
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
