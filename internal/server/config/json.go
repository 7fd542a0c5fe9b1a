package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/reverseauction/internal/flagx"
	"github.com/dmitrijs2005/reverseauction/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file.
type JsonConfig struct {
	ListenAddr                  *string         `json:"listen_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	AdminName                   *string         `json:"admin_name"`
	AdminEmail                  *string         `json:"admin_email"`
	AdminPassword               *string         `json:"admin_password"`
	SeedCategories              *bool           `json:"seed_categories"`
	LogFormat                   *string         `json:"log_format"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
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

	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&cfg.ListenAddr, jc.ListenAddr},
		{&cfg.DatabaseDSN, jc.DatabaseDSN},
		{&cfg.SecretKey, jc.SecretKey},
		{&cfg.AdminName, jc.AdminName},
		{&cfg.AdminEmail, jc.AdminEmail},
		{&cfg.AdminPassword, jc.AdminPassword},
		{&cfg.LogFormat, jc.LogFormat},
		{&cfg.LogLevel, jc.LogLevel},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if jc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.SeedCategories != nil {
		cfg.SeedCategories = *jc.SeedCategories
	}
	return nil
}
