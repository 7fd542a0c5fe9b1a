package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"listen_addr":                    "127.0.0.1:9000",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "2h",
		"admin_email":                    "",
		"seed_categories":                false,
	})

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseJson(cfg, []string{"-config", path}))

	want := &Config{}
	want.LoadDefaults()
	want.ListenAddr = "127.0.0.1:9000"
	want.SecretKey = "my_secret_key"
	want.AccessTokenValidityDuration = 2 * time.Hour
	want.AdminEmail = ""
	want.SeedCategories = false

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_parseJson_NoFileIsNoop(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseJson(cfg, nil))
	assert.Equal(t, ":5001", cfg.ListenAddr)
}

func Test_parseJson_Errors(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.Error(t, parseJson(cfg, []string{"-c", bad}))
}
