package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:ricehub.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Auth AuthConfig `yaml:"auth" json:"auth" jsonschema:"description=Authentication configuration"`

	Uploads UploadsConfig `yaml:"uploads" json:"uploads" jsonschema:"description=Uploaded image storage configuration"`

	External ExternalConfig `yaml:"external" json:"external" jsonschema:"description=Third-party content aggregation configuration"`
}

// AuthConfig holds token and cookie settings
type AuthConfig struct {
	Secret     string        `yaml:"secret" json:"secret" jsonschema:"required,description=HMAC secret for signing tokens (can use environment variable)"`
	TokenTTL   time.Duration `yaml:"token_ttl" json:"token_ttl" jsonschema:"default=168h,description=Token lifetime"`
	CookieName string        `yaml:"cookie_name" json:"cookie_name" jsonschema:"default=jwt,description=Name of the auth cookie"`
	Secure     bool          `yaml:"secure" json:"secure" jsonschema:"default=false,description=Set Secure and SameSite=Strict on the auth cookie (production)"`
}

// UploadsConfig holds settings for stored screenshot and avatar images
type UploadsConfig struct {
	Dir     string `yaml:"dir" json:"dir" jsonschema:"default=./data/uploads,description=Directory for uploaded images"`
	BaseURL string `yaml:"base_url" json:"base_url" jsonschema:"default=/static,description=Public URL prefix for uploaded images"`
	MaxSize int64  `yaml:"max_size" json:"max_size" jsonschema:"default=10485760,description=Maximum upload size in bytes"`
}

// ExternalConfig holds settings for the GitHub/YouTube aggregation
type ExternalConfig struct {
	GithubURL    string        `yaml:"github_url" json:"github_url" jsonschema:"default=https://api.github.com,description=GitHub API base URL"`
	GithubToken  string        `yaml:"github_token" json:"github_token" jsonschema:"description=GitHub API token (optional, raises rate limits)"`
	YoutubeURL   string        `yaml:"youtube_url" json:"youtube_url" jsonschema:"default=https://www.googleapis.com/youtube/v3,description=YouTube API base URL"`
	YoutubeKey   string        `yaml:"youtube_key" json:"youtube_key" jsonschema:"description=YouTube API key (can use environment variable)"`
	CacheTTL     time.Duration `yaml:"cache_ttl" json:"cache_ttl" jsonschema:"default=1h,description=How long aggregated results are served from cache"`
	PerSource    int           `yaml:"per_source" json:"per_source" jsonschema:"default=6,description=Items requested from each source"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=10s,description=Timeout per upstream request"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables, used for secrets
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:ricehub.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for auth
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "jwt"
	}

	// set defaults for uploads
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "./data/uploads"
	}
	if cfg.Uploads.BaseURL == "" {
		cfg.Uploads.BaseURL = "/static"
	}
	if cfg.Uploads.MaxSize == 0 {
		cfg.Uploads.MaxSize = 10 * 1024 * 1024
	}

	// set defaults for external aggregation
	if cfg.External.GithubURL == "" {
		cfg.External.GithubURL = "https://api.github.com"
	}
	if cfg.External.YoutubeURL == "" {
		cfg.External.YoutubeURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.External.CacheTTL == 0 {
		cfg.External.CacheTTL = time.Hour
	}
	if cfg.External.PerSource == 0 {
		cfg.External.PerSource = 6
	}
	if cfg.External.FetchTimeout == 0 {
		cfg.External.FetchTimeout = 10 * time.Second
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate auth config
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if cfg.Auth.TokenTTL < time.Minute {
		return fmt.Errorf("auth.token_ttl must be at least 1 minute")
	}

	// validate uploads config
	if cfg.Uploads.MaxSize < 1024 {
		return fmt.Errorf("uploads.max_size must be at least 1KB")
	}

	// validate external config
	if cfg.External.PerSource < 1 || cfg.External.PerSource > 50 {
		return fmt.Errorf("external.per_source must be between 1 and 50")
	}
	if cfg.External.CacheTTL < time.Minute {
		return fmt.Errorf("external.cache_ttl must be at least 1 minute")
	}
	if cfg.External.FetchTimeout < time.Second {
		return fmt.Errorf("external.fetch_timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetAuthConfig returns authentication configuration
func (c *Config) GetAuthConfig() AuthConfig {
	return c.Auth
}

// GetUploadsConfig returns uploaded image storage configuration
func (c *Config) GetUploadsConfig() UploadsConfig {
	return c.Uploads
}

// GetExternalConfig returns third-party aggregation configuration
func (c *Config) GetExternalConfig() ExternalConfig {
	return c.External
}
