// Package config handles configuration for the development server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the development server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP and websocket endpoint.
//   - DatabaseDSN: PostgreSQL DSN. Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - AdminName / AdminEmail / AdminPassword: the account seeded as admin at start.
//     An empty AdminEmail disables seeding.
//   - SeedCategories: create a few starter categories at start.
type Config struct {
	ListenAddr                  string        `env:"MARKETD_ADDR"`
	DatabaseDSN                 string        `env:"MARKETD_DATABASE_DSN"`
	SecretKey                   string        `env:"MARKETD_SECRET"`
	AccessTokenValidityDuration time.Duration `env:"MARKETD_TOKEN_TTL"`
	AdminName                   string        `env:"MARKETD_ADMIN_NAME"`
	AdminEmail                  string        `env:"MARKETD_ADMIN_EMAIL"`
	AdminPassword               string        `env:"MARKETD_ADMIN_PASSWORD"`
	SeedCategories              bool          `env:"MARKETD_SEED_CATEGORIES"`
	LogFormat                   string        `env:"MARKETD_LOG_FORMAT"`
	LogLevel                    string        `env:"MARKETD_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5001"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.AdminName = "Admin"
	c.AdminEmail = "admin@example.com"
	c.AdminPassword = "admin123"
	c.SeedCategories = true
	c.LogFormat = "console"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the optional JSON file, the environment
// and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key must not be empty")
	}
	if cfg.AccessTokenValidityDuration <= 0 {
		return nil, fmt.Errorf("token validity must be positive")
	}
	return cfg, nil
}
