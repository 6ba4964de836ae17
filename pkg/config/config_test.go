package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yml")
	err := os.WriteFile(configPath, []byte(content), 0o644)
	require.NoError(t, err)
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

auth:
  secret: super-secret
  token_ttl: 24h
  cookie_name: session
  secure: true

uploads:
  dir: /var/lib/ricehub/uploads
  max_size: 5242880

external:
  github_token: gh-token
  youtube_key: yt-key
  cache_ttl: 30m
  per_source: 10
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)

		assert.Equal(t, "super-secret", cfg.Auth.Secret)
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, "session", cfg.Auth.CookieName)
		assert.True(t, cfg.Auth.Secure)

		assert.Equal(t, "/var/lib/ricehub/uploads", cfg.Uploads.Dir)
		assert.Equal(t, int64(5242880), cfg.Uploads.MaxSize)

		assert.Equal(t, "gh-token", cfg.External.GithubToken)
		assert.Equal(t, "yt-key", cfg.External.YoutubeKey)
		assert.Equal(t, 30*time.Minute, cfg.External.CacheTTL)
		assert.Equal(t, 10, cfg.External.PerSource)
	})

	t.Run("defaults", func(t *testing.T) {
		configContent := `
auth:
  secret: super-secret
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// check server defaults
		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

		// check database defaults
		assert.Equal(t, "file:ricehub.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)

		// check auth defaults
		assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, "jwt", cfg.Auth.CookieName)
		assert.False(t, cfg.Auth.Secure)

		// check uploads defaults
		assert.Equal(t, "./data/uploads", cfg.Uploads.Dir)
		assert.Equal(t, "/static", cfg.Uploads.BaseURL)
		assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxSize)

		// check external defaults
		assert.Equal(t, "https://api.github.com", cfg.External.GithubURL)
		assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.External.YoutubeURL)
		assert.Equal(t, time.Hour, cfg.External.CacheTTL)
		assert.Equal(t, 6, cfg.External.PerSource)
		assert.Equal(t, 10*time.Second, cfg.External.FetchTimeout)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("RICEHUB_SECRET", "from-env")
		configContent := `
auth:
  secret: ${RICEHUB_SECRET}
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Auth.Secret)
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8080\"\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "auth.secret is required")
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("bad per_source", func(t *testing.T) {
		configContent := `
auth:
  secret: s3cret
external:
  per_source: 100
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "per_source")
	})
}

func TestConfig_Accessors(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Listen = ":9999"
	cfg.Server.Timeout = 15 * time.Second
	cfg.Auth = AuthConfig{Secret: "s", TokenTTL: time.Hour, CookieName: "jwt"}
	cfg.Uploads = UploadsConfig{Dir: "/tmp/up", BaseURL: "/static", MaxSize: 1024}
	cfg.External = ExternalConfig{PerSource: 6, CacheTTL: time.Hour}

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9999", listen)
	assert.Equal(t, 15*time.Second, timeout)

	assert.Equal(t, "s", cfg.GetAuthConfig().Secret)
	assert.Equal(t, "/tmp/up", cfg.GetUploadsConfig().Dir)
	assert.Equal(t, 6, cfg.GetExternalConfig().PerSource)
}
