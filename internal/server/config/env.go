package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// parseEnv overlays MARKETD_* variables, reading .env first when present.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()
	return env.Parse(cfg)
}
