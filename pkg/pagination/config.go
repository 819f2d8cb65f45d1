// Package pagination provides types and utilities for paginated data queries.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds page size limits. Clause listings get their own ceiling since a
// single contract commonly yields more clauses than a listing page of records.
type Config struct {
	DefaultPageSize   int `toml:"default_page_size" json:"default_page_size"`
	MaxPageSize       int `toml:"max_page_size" json:"max_page_size"`
	MaxClausePageSize int `toml:"max_clause_page_size" json:"max_clause_page_size"`
}

// ConfigEnv maps environment variable names for pagination configuration.
type ConfigEnv struct {
	DefaultPageSize   string
	MaxPageSize       string
	MaxClausePageSize string
}

// Clauses returns the limits that apply to clause listings. The clause
// ceiling never drops below MaxPageSize.
func (c Config) Clauses() Config {
	cfg := c
	cfg.MaxPageSize = max(c.MaxPageSize, c.MaxClausePageSize)
	return cfg
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize != 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
	if overlay.MaxClausePageSize != 0 {
		c.MaxClausePageSize = overlay.MaxClausePageSize
	}
}

func (c *Config) loadDefaults() {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	if c.MaxClausePageSize <= 0 {
		c.MaxClausePageSize = 500
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	envInt(env.DefaultPageSize, &c.DefaultPageSize)
	envInt(env.MaxPageSize, &c.MaxPageSize)
	envInt(env.MaxClausePageSize, &c.MaxClausePageSize)
}

func envInt(name string, dst *int) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default_page_size must be positive")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	return nil
}
