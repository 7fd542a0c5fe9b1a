package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// parseEnv loads an optional .env file and overlays MARKET_* variables.
// Unset variables keep the value from earlier sources.
func parseEnv(cfg *Config) error {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	return env.Parse(cfg)
}
