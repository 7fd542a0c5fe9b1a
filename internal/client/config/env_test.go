package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("MARKET_API_URL", "http://env/api")
	t.Setenv("MARKET_RECONNECT_DELAY", "1s")
	t.Setenv("MARKET_REDIS_DB", "2")

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "http://env/api", cfg.APIBaseURL)
	assert.Equal(t, time.Second, cfg.ReconnectDelay)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "market.db", cfg.StoragePath, "unset vars keep earlier values")
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("MARKET_REDIS_DB", "two")

	var cfg Config
	require.Error(t, parseEnv(&cfg))
}
