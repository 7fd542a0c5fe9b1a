package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5001", c.ListenAddr)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, "admin@example.com", c.AdminEmail)
	assert.True(t, c.SeedCategories)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":5001", c.ListenAddr)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	t.Setenv("MARKETD_ADDR", ":7000")
	path := writeTempJSON(t, "", "", map[string]any{"listen_addr": ":6000", "secret_key": "from-json"})

	c, err := LoadConfig([]string{"-c", path, "-a", ":8000", "-t", "30", "-d", "postgres://localhost/market"})
	require.NoError(t, err)
	assert.Equal(t, ":8000", c.ListenAddr)
	assert.Equal(t, "postgres://localhost/market", c.DatabaseDSN)
	assert.Equal(t, "from-json", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoadConfig_EnvOverJSON(t *testing.T) {
	t.Setenv("MARKETD_SECRET", "from-env")
	path := writeTempJSON(t, "", "", map[string]any{"secret_key": "from-json"})

	c, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.SecretKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-s", ""})
	assert.ErrorContains(t, err, "secret key")

	_, err = LoadConfig([]string{"-t", "0"})
	assert.ErrorContains(t, err, "token validity")

	_, err = LoadConfig([]string{"-t", "abc"})
	assert.Error(t, err)
}
