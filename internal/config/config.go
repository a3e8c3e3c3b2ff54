// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Upload   UploadConfig
	Input    InputConfig
	Output   OutputConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// SessionConfig holds workspace session settings.
type SessionConfig struct {
	// MaxActive is the maximum number of open sessions (default: 100)
	MaxActive int `env:"SESSION_MAX_ACTIVE" default:"100"`

	// IdleTimeout is how long an unused session is kept (default: 30m)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"30m"`

	// SweepSchedule is the cron schedule of the idle sweep (default: @every 1m)
	SweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" default:"@every 1m"`

	// PreviewRows is how many rows a session view includes (default: 200)
	PreviewRows int `env:"SESSION_PREVIEW_ROWS" default:"200"`
}

// UploadConfig holds JSON upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted input size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`
}

// InputConfig holds input decoding settings.
type InputConfig struct {
	// ShapePolicy is "permissive" (wrap a single object) or "strict" (default: permissive)
	ShapePolicy string `env:"INPUT_SHAPE_POLICY" default:"permissive"`
}

// OutputConfig holds the initial TXT options of new sessions.
type OutputConfig struct {
	// UseTab separates TXT values with a tab instead of a space (default: false)
	UseTab bool `env:"OUTPUT_USE_TAB" default:"false"`

	// SingleLine joins every record onto one TXT line (default: false)
	SingleLine bool `env:"OUTPUT_SINGLE_LINE" default:"false"`

	// StartIndent is the number of spaces before each TXT line (default: 0)
	StartIndent int `env:"OUTPUT_START_INDENT" default:"0"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// UploadLimit is requests per minute for input and upload endpoints (default: 30)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables API key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
