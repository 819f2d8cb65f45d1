// Package config loads the covenant service configuration from config.toml,
// an optional environment overlay, and COVENANT_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/covenant/pkg/database"
	"github.com/JaimeStill/covenant/pkg/risk"
	"github.com/JaimeStill/covenant/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCovenantEnv             = "COVENANT_ENV"
	EnvCovenantShutdownTimeout = "COVENANT_SHUTDOWN_TIMEOUT"
	EnvCovenantVersion         = "COVENANT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "COVENANT_DB_HOST",
	Port:            "COVENANT_DB_PORT",
	Name:            "COVENANT_DB_NAME",
	User:            "COVENANT_DB_USER",
	Password:        "COVENANT_DB_PASSWORD",
	SSLMode:         "COVENANT_DB_SSL_MODE",
	MaxOpenConns:    "COVENANT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COVENANT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COVENANT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COVENANT_DB_CONN_TIMEOUT",
	ApplicationName: "COVENANT_DB_APPLICATION_NAME",
}

var storageEnv = &storage.Env{
	ContainerName:    "COVENANT_STORAGE_CONTAINER_NAME",
	ConnectionString: "COVENANT_STORAGE_CONNECTION_STRING",
	ServiceURL:       "COVENANT_STORAGE_SERVICE_URL",
	KeyPrefix:        "COVENANT_STORAGE_KEY_PREFIX",
}

// RiskEnv names the variables that override classification thresholds.
// The command-line tool reuses it so both entry points honour the same overrides.
var RiskEnv = &risk.Env{
	KeywordThreshold:    "COVENANT_RISK_KEYWORD_THRESHOLD",
	BaseRiskyConfidence: "COVENANT_RISK_BASE_RISKY_CONFIDENCE",
	SafeConfidence:      "COVENANT_RISK_SAFE_CONFIDENCE",
	Workers:             "COVENANT_RISK_WORKERS",
	LexiconPath:         "COVENANT_RISK_LEXICON_PATH",
}

// Config is the root configuration for the covenant service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Logging         LoggingConfig   `toml:"logging"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Risk            risk.Config     `toml:"risk"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the COVENANT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCovenantEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Without a config.toml, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Risk.Merge(&overlay.Risk)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	for _, sub := range []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"logging", c.Logging.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"risk", func() error { return c.Risk.Finalize(RiskEnv) }},
	} {
		if err := sub.finalize(); err != nil {
			return fmt.Errorf("%s: %w", sub.name, err)
		}
	}

	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCovenantShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCovenantVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCovenantEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
