package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/isolator/internal/isolation/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.True(t, cfg.IsolationEnabled)
				assert.False(t, cfg.UseNonTorProxy)
				assert.Equal(t, 10*time.Minute, cfg.CatchAllMaxAge)
				assert.Equal(t, "127.0.0.1", cfg.SOCKSProxyHost)
				assert.Equal(t, 9150, cfg.SOCKSProxyPort)
				assert.Empty(t, cfg.ControlPasswordHash)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 10.0, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 20, cfg.RateLimitBurst)
				assert.False(t, cfg.CORSEnabled)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "isolator", cfg.MetricsNamespace)
				assert.Equal(t, 8081, cfg.MetricsPort)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST":              "0.0.0.0",
				"SERVER_PORT":              "9090",
				"SHUTDOWN_TIMEOUT_SECONDS": "3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
				assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
			},
		},
		{
			name: "load custom isolation configuration",
			envVars: map[string]string{
				"ISOLATION_ENABLED":         "false",
				"CATCH_ALL_MAX_AGE_SECONDS": "30",
				"SOCKS_PROXY_HOST":          "10.0.0.5",
				"SOCKS_PROXY_PORT":          "9050",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.IsolationEnabled)
				assert.Equal(t, 30*time.Second, cfg.CatchAllMaxAge)
				assert.Equal(t, "10.0.0.5", cfg.SOCKSProxyHost)
				assert.Equal(t, 9050, cfg.SOCKSProxyPort)
			},
		},
		{
			name: "load control and rate limit configuration",
			envVars: map[string]string{
				"CONTROL_PASSWORD_HASH":       "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "4",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", cfg.ControlPasswordHash)
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 4, cfg.RateLimitBurst)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			// Load configuration
			cfg := Load()

			// Validate
			tt.validate(t, cfg)
		})
	}
}

func TestConfig_IsolationStartsEnabled(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		nonTor    bool
		expectsOn bool
	}{
		{name: "enabled with tor", enabled: true, nonTor: false, expectsOn: true},
		{name: "enabled with non-tor proxy", enabled: true, nonTor: true, expectsOn: false},
		{name: "disabled with tor", enabled: false, nonTor: false, expectsOn: false},
		{name: "disabled with non-tor proxy", enabled: false, nonTor: true, expectsOn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{IsolationEnabled: tt.enabled, UseNonTorProxy: tt.nonTor}
			assert.Equal(t, tt.expectsOn, cfg.IsolationStartsEnabled())
		})
	}
}

func TestConfig_DefaultProxy(t *testing.T) {
	cfg := &Config{SOCKSProxyHost: "127.0.0.1", SOCKSProxyPort: 9150}

	proxy := cfg.DefaultProxy()

	assert.Equal(t, domain.ProxyTypeSOCKS5, proxy.Type)
	assert.Equal(t, "127.0.0.1:9150", proxy.Address())
	assert.True(t, proxy.Credentials().IsZero())
}

func TestConfig_ControlURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080", (&Config{ServerHost: "127.0.0.1", ServerPort: 8080}).ControlURL())
	assert.Equal(t, "http://[::1]:9000", (&Config{ServerHost: "::1", ServerPort: 9000}).ControlURL())
}

func TestConfig_GetGinMode(t *testing.T) {
	for level, mode := range map[string]string{
		"debug": "debug",
		"info":  "release",
		"warn":  "release",
		"error": "release",
		"":      "release",
	} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, mode, cfg.GetGinMode(), level)
	}
}
