// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Backend API
	APIBaseURL string `env:"TIPSTACK_API_BASE_URL,required"` // e.g. https://api.example.com

	// Identity provider
	IdentityBaseURL string `env:"TIPSTACK_IDENTITY_BASE_URL,required"`
	IdentityAPIKey  string `env:"TIPSTACK_IDENTITY_API_KEY,required"`

	// AI content generation (admin tip form)
	OpenAIAPIKey string `env:"TIPSTACK_OPENAI_API_KEY"`

	// Error reporting
	ReportingDSN string `env:"TIPSTACK_REPORTING_DSN"`

	SessionSecret string `env:"TIPSTACK_SESSION_SECRET,required"`
	SessionDBPath string `env:"TIPSTACK_SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	ServerHost    string `env:"TIPSTACK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TIPSTACK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TIPSTACK_ENV" envDefault:"development"`
	LogLevel      string `env:"TIPSTACK_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"TIPSTACK_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"TIPSTACK_CACHE_PREFIX" envDefault:"tips:"` // Redis key prefix
	CacheTTL    int    `env:"TIPSTACK_CACHE_TTL" envDefault:"600"`      // Hard entry expiry in seconds
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AIEnabled returns true if the AI generation key is configured.
func (c Config) AIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// ReportingEnabled returns true if an error-reporting DSN is configured.
func (c Config) ReportingEnabled() bool {
	return c.ReportingDSN != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("TIPSTACK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.IdentityBaseURL = strings.TrimRight(cfg.IdentityBaseURL, "/")

	return cfg, nil
}
