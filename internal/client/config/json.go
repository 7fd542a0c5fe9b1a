package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/reverseauction/internal/flagx"
	"github.com/dmitrijs2005/reverseauction/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "15s" style strings or integer nanoseconds.
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	RealtimeURL          *string         `json:"realtime_url"`
	Environment          *string         `json:"environment"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	ReconnectMaxAttempts *int            `json:"reconnect_max_attempts"`
	ReconnectDelay       *timex.Duration `json:"reconnect_delay"`
	DialTimeout          *timex.Duration `json:"dial_timeout"`
	StorageBackend       *string         `json:"storage_backend"`
	StoragePath          *string         `json:"storage_path"`
	RedisAddr            *string         `json:"redis_addr"`
	RedisDB              *int            `json:"redis_db"`
	LogFormat            *string         `json:"log_format"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing from
// the file leave the current value untouched.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.RealtimeURL, jc.RealtimeURL)
	setString(&cfg.Environment, jc.Environment)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ReconnectDelay != nil {
		cfg.ReconnectDelay = jc.ReconnectDelay.Duration
	}
	if jc.DialTimeout != nil {
		cfg.DialTimeout = jc.DialTimeout.Duration
	}
	if jc.ReconnectMaxAttempts != nil {
		cfg.ReconnectMaxAttempts = *jc.ReconnectMaxAttempts
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
