// Package config provides application configuration through environment variables.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	"github.com/allisson/isolator/internal/isolation/domain"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the control API will bind to.
	ServerHost string
	// ServerPort is the port number the control API will listen on.
	ServerPort int
	// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// IsolationEnabled is the initial state of domain isolation.
	IsolationEnabled bool
	// UseNonTorProxy marks the configured proxy as something other than Tor. Isolation then
	// starts disabled regardless of IsolationEnabled.
	UseNonTorProxy bool
	// CatchAllMaxAge is how long unattributed requests share one identity.
	CatchAllMaxAge time.Duration

	// SOCKSProxyHost is the host of the upstream SOCKS5 proxy (usually Tor).
	SOCKSProxyHost string
	// SOCKSProxyPort is the port of the upstream SOCKS5 proxy.
	SOCKSProxyPort int

	// ControlPasswordHash is the Argon2id hash guarding the control routes. Empty disables auth.
	ControlPasswordHash string

	// RateLimitEnabled indicates whether per-IP rate limiting of control routes is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for control route rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Isolation
		IsolationEnabled: env.GetBool("ISOLATION_ENABLED", true),
		UseNonTorProxy:   env.GetBool("USE_NONTOR_PROXY", false),
		CatchAllMaxAge:   env.GetDuration("CATCH_ALL_MAX_AGE_SECONDS", 600, time.Second),

		// Upstream proxy
		SOCKSProxyHost: env.GetString("SOCKS_PROXY_HOST", "127.0.0.1"),
		SOCKSProxyPort: env.GetInt("SOCKS_PROXY_PORT", 9150),

		// Control auth
		ControlPasswordHash: env.GetString("CONTROL_PASSWORD_HASH", ""),

		// Rate Limiting (control routes, IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "isolator"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// IsolationStartsEnabled reports whether the engine should start with isolation on.
func (c *Config) IsolationStartsEnabled() bool {
	return c.IsolationEnabled && !c.UseNonTorProxy
}

// DefaultProxy returns the configured upstream SOCKS5 proxy descriptor.
func (c *Config) DefaultProxy() domain.ProxyDescriptor {
	return domain.ProxyDescriptor{
		Type: domain.ProxyTypeSOCKS5,
		Host: c.SOCKSProxyHost,
		Port: c.SOCKSProxyPort,
	}
}

// ControlURL returns the base URL of the control API for CLI clients.
func (c *Config) ControlURL() string {
	return "http://" + net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
