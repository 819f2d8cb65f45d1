package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/covenant/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
read_header_timeout = "10s"
write_timeout = "2m"
shutdown_timeout = "30s"

[logging]
level = "debug"
format = "json"

[database]
host = "localhost"
port = 5432
name = "covenant"
user = "covenant"
password = "covenant"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "contracts"
connection_string = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[risk]
keyword_threshold = 3
base_risky_confidence = 0.75
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[risk]
safe_confidence = 0.95
`

const minimalConfig = `
[database]
name = "covenant"
user = "covenant"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func loadFrom(t *testing.T, content string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, content)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadFrom(t, baseConfig)

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "contracts" {
		t.Errorf("storage container: got %s, want contracts", cfg.Storage.ContainerName)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadRiskSection(t *testing.T) {
	cfg := loadFrom(t, baseConfig)

	if cfg.Risk.KeywordThreshold != 3 {
		t.Errorf("keyword_threshold: got %d, want 3", cfg.Risk.KeywordThreshold)
	}
	if cfg.Risk.BaseRisky() != 0.75 {
		t.Errorf("base_risky_confidence: got %v, want 0.75", cfg.Risk.BaseRisky())
	}
	if cfg.Risk.Safe() != 0.90 {
		t.Errorf("safe_confidence default: got %v, want 0.90", cfg.Risk.Safe())
	}
	if cfg.Risk.Workers < 1 {
		t.Errorf("workers default: got %d, want >= 1", cfg.Risk.Workers)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("COVENANT_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Risk.Safe() != 0.95 {
		t.Errorf("safe_confidence: got %v, want 0.95 (from overlay)", cfg.Risk.Safe())
	}
	if cfg.Risk.KeywordThreshold != 3 {
		t.Errorf("keyword_threshold: got %d, want 3 (from base)", cfg.Risk.KeywordThreshold)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("COVENANT_VERSION", "2.0.0")
	t.Setenv("COVENANT_SERVER_PORT", "3000")
	t.Setenv("COVENANT_RISK_KEYWORD_THRESHOLD", "4")
	t.Setenv("COVENANT_LOG_LEVEL", "WARN")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Risk.KeywordThreshold != 4 {
		t.Errorf("keyword_threshold: got %d, want 4", cfg.Risk.KeywordThreshold)
	}
	if cfg.Logging.SlogLevel() != slog.LevelWarn {
		t.Errorf("log level: got %v, want WARN", cfg.Logging.SlogLevel())
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("COVENANT_DB_NAME", "testdb")
	t.Setenv("COVENANT_DB_USER", "testuser")
	t.Setenv("COVENANT_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
	if cfg.Risk.KeywordThreshold != 2 {
		t.Errorf("keyword_threshold default: got %d, want 2", cfg.Risk.KeywordThreshold)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `[server`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := loadFrom(t, baseConfig)

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	t.Setenv("COVENANT_ENV", "production")
	cfg := loadFrom(t, baseConfig)

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestServerDurations(t *testing.T) {
	t.Setenv(config.EnvServerWriteTimeout, "45s")
	cfg := loadFrom(t, minimalConfig)

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"read default", cfg.Server.ReadTimeoutDuration(), time.Minute},
		{"read header default", cfg.Server.ReadHeaderTimeoutDuration(), 10 * time.Second},
		{"write from env", cfg.Server.WriteTimeoutDuration(), 45 * time.Second},
		{"shutdown default", cfg.Server.ShutdownTimeoutDuration(), 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestServerMergeDurations(t *testing.T) {
	base := config.ServerConfig{ReadTimeout: "1m", WriteTimeout: "2m"}
	base.Merge(&config.ServerConfig{WriteTimeout: "5m", ReadHeaderTimeout: "3s"})

	if base.ReadTimeout != "1m" {
		t.Errorf("read_timeout: got %q, want 1m", base.ReadTimeout)
	}
	if base.WriteTimeout != "5m" {
		t.Errorf("write_timeout: got %q, want 5m", base.WriteTimeout)
	}
	if base.ReadHeaderTimeout != "3s" {
		t.Errorf("read_header_timeout: got %q, want 3s", base.ReadHeaderTimeout)
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := loadFrom(t, baseConfig)

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := loadFrom(t, baseConfig)

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestDefaults(t *testing.T) {
	cfg := loadFrom(t, minimalConfig)

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging: got %+v, want info/text", cfg.Logging)
	}
	if cfg.API.OpenAPI.Title != "Covenant API" {
		t.Errorf("openapi title: got %q", cfg.API.OpenAPI.Title)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 25*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, 25*1024*1024)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	t.Setenv("COVENANT_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("COVENANT_PAGINATION_MAX_PAGE_SIZE", "200")
	cfg := loadFrom(t, baseConfig)

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MiB", "10MiB", 10 * 1024 * 1024},
		{"invalid falls back to 25MB", "bad", 25 * 1024 * 1024},
		{"empty falls back to 25MB", "", 25 * 1024 * 1024},
		{"zero falls back to 25MB", "0", 25 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	t.Setenv("COVENANT_API_MAX_UPLOAD_SIZE", "100MB")
	cfg := loadFrom(t, baseConfig)

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "invalid port",
			config:  minimalConfig + "\n[server]\nport = 99999\n",
			wantErr: "invalid port",
		},
		{
			name:    "invalid read_timeout",
			config:  minimalConfig + "\n[server]\nread_timeout = \"bad\"\n",
			wantErr: "invalid read_timeout",
		},
		{
			name:    "invalid read_header_timeout",
			config:  minimalConfig + "\n[server]\nread_header_timeout = \"soon\"\n",
			wantErr: "invalid read_header_timeout",
		},
		{
			name:    "invalid log format",
			config:  minimalConfig + "\n[logging]\nformat = \"xml\"\n",
			wantErr: "invalid format",
		},
		{
			name:    "invalid keyword threshold",
			config:  minimalConfig + "\n[risk]\nkeyword_threshold = -1\n",
			wantErr: "keyword_threshold",
		},
		{
			name:    "invalid upload size",
			config:  minimalConfig + "\n[api]\nmax_upload_size = \"lots\"\n",
			wantErr: "invalid max_upload_size",
		},
		{
			name:    "missing storage",
			config:  "[database]\nname = \"covenant\"\nuser = \"covenant\"\n",
			wantErr: "storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoggingNewLogger(t *testing.T) {
	var buf strings.Builder
	cfg := config.LoggingConfig{Level: "warn", Format: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json record, got %s", out)
	}
}
