package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/covenant/pkg/formatting"
	"github.com/JaimeStill/covenant/pkg/middleware"
	"github.com/JaimeStill/covenant/pkg/openapi"
	"github.com/JaimeStill/covenant/pkg/pagination"
)

const (
	EnvAPIBasePath      = "COVENANT_API_BASE_PATH"
	EnvAPIMaxUploadSize = "COVENANT_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = 25 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COVENANT_CORS_ENABLED",
	Origins:          "COVENANT_CORS_ORIGINS",
	AllowedMethods:   "COVENANT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COVENANT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "COVENANT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COVENANT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize:   "COVENANT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:       "COVENANT_PAGINATION_MAX_PAGE_SIZE",
	MaxClausePageSize: "COVENANT_PAGINATION_MAX_CLAUSE_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "COVENANT_OPENAPI_TITLE",
	Description: "COVENANT_OPENAPI_DESCRIPTION",
	Version:     "COVENANT_OPENAPI_VERSION",
}

// APIConfig holds API routing, upload limits, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes, or 25MB when it cannot be parsed.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil || size <= 0 {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if len(c.BasePath) < 2 || c.BasePath[0] != '/' {
		return fmt.Errorf("invalid base_path: %q", c.BasePath)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
