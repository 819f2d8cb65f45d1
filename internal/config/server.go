package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "COVENANT_SERVER_HOST"
	EnvServerPort              = "COVENANT_SERVER_PORT"
	EnvServerReadTimeout       = "COVENANT_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "COVENANT_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "COVENANT_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "COVENANT_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Durations are Go duration strings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return parseDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return parseDuration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, d := range c.durations() {
		if v := d.overlay(overlay); v != "" {
			*d.field = v
		}
	}
}

// serverDuration binds a duration field to its key, env variable, default,
// and the matching field of an overlay.
type serverDuration struct {
	key     string
	env     string
	def     string
	field   *string
	overlay func(*ServerConfig) string
}

func (c *ServerConfig) durations() []serverDuration {
	return []serverDuration{
		{"read_timeout", EnvServerReadTimeout, "1m", &c.ReadTimeout,
			func(o *ServerConfig) string { return o.ReadTimeout }},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", &c.ReadHeaderTimeout,
			func(o *ServerConfig) string { return o.ReadHeaderTimeout }},
		{"write_timeout", EnvServerWriteTimeout, "2m", &c.WriteTimeout,
			func(o *ServerConfig) string { return o.WriteTimeout }},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", &c.ShutdownTimeout,
			func(o *ServerConfig) string { return o.ShutdownTimeout }},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, d := range c.durations() {
		if *d.field == "" {
			*d.field = d.def
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, d := range c.durations() {
		if v := os.Getenv(d.env); v != "" {
			*d.field = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, d := range c.durations() {
		if _, err := time.ParseDuration(*d.field); err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}
	return nil
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
