package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remuxapp/remux/server"
)

func validConfig() *Config {
	return &Config{
		Server: server.Config{
			Kind:     server.KindJellyfin,
			Host:     "http://localhost:8096",
			Username: "alice",
		},
		Client:  ClientConfig{Limit: 25, TimeoutSeconds: 30},
		Cache:   CacheConfig{TTLSeconds: 360},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid jellyfin",
			mutate: func(*Config) {},
		},
		{
			name: "valid stremio without addons",
			mutate: func(c *Config) {
				c.Server = server.Config{Kind: server.KindStremio}
			},
		},
		{
			name: "jellyfin requires host",
			mutate: func(c *Config) {
				c.Server.Host = ""
			},
			wantErr: "server.host is required",
		},
		{
			name: "jellyfin requires credentials",
			mutate: func(c *Config) {
				c.Server.Username = ""
				c.Server.Token = ""
			},
			wantErr: "server.username or server.token is required",
		},
		{
			name: "token alone is enough",
			mutate: func(c *Config) {
				c.Server.Username = ""
				c.Server.Token = "stored-token"
			},
		},
		{
			name: "unknown kind",
			mutate: func(c *Config) {
				c.Server.Kind = "plex"
			},
			wantErr: "invalid server kind",
		},
		{
			name: "zero limit",
			mutate: func(c *Config) {
				c.Client.Limit = 0
			},
			wantErr: "client.limit must be positive",
		},
		{
			name: "negative ttl",
			mutate: func(c *Config) {
				c.Cache.TTLSeconds = -1
			},
			wantErr: "cache.ttl_seconds must not be negative",
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			wantErr: "invalid logging level",
		},
		{
			name: "bad log format",
			mutate: func(c *Config) {
				c.Logging.Format = "xml"
			},
			wantErr: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("file with defaults applied", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  kind: jellyfin
  host: http://localhost:8096
  username: alice
  password: hunter2
capabilities:
  hevc: true
filter:
  unwatched: "!Watched"
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, server.KindJellyfin, cfg.Server.Kind)
		assert.Equal(t, "alice", cfg.Server.Username)

		// Defaults fill everything the file leaves out.
		assert.Equal(t, 25, cfg.Client.Limit)
		assert.Equal(t, 360, cfg.Cache.TTLSeconds)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "Remux", cfg.Device.Name)
		assert.True(t, cfg.Capabilities.H264)
		assert.True(t, cfg.Capabilities.HEVC)
		assert.False(t, cfg.Capabilities.AV1)

		assert.Equal(t, "!Watched", cfg.Filter["unwatched"])
	})

	t.Run("stremio addons", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  kind: stremio
  addons:
    - https://v3-cinemeta.strem.io
    - https://addon.example.org
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, server.KindStremio, cfg.Server.Kind)
		assert.Len(t, cfg.Server.Addons, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid content rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
server:
  kind: jellyfin
`), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}
