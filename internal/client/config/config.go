package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

var defaultAPIBaseURL = map[string]string{
	EnvDevelopment: "http://localhost:5001/api",
	EnvProduction:  "https://ters-acik-artirma-api.vercel.app/api",
}

// Config holds runtime settings for the marketplace client.
type Config struct {
	APIBaseURL  string `env:"MARKET_API_URL"`
	RealtimeURL string `env:"MARKET_WS_URL"`
	Environment string `env:"MARKET_ENV"`

	RequestTimeout       time.Duration `env:"MARKET_REQUEST_TIMEOUT"`
	ReconnectMaxAttempts int           `env:"MARKET_RECONNECT_ATTEMPTS"`
	ReconnectDelay       time.Duration `env:"MARKET_RECONNECT_DELAY"`
	DialTimeout          time.Duration `env:"MARKET_DIAL_TIMEOUT"`

	StorageBackend string `env:"MARKET_STORAGE"`
	StoragePath    string `env:"MARKET_STORAGE_PATH"`
	RedisAddr      string `env:"MARKET_REDIS_ADDR"`
	RedisDB        int    `env:"MARKET_REDIS_DB"`

	LogFormat string `env:"MARKET_LOG_FORMAT"`
	LogLevel  string `env:"MARKET_LOG_LEVEL"`
}

// LoadDefaults populates c with development defaults. APIBaseURL and
// RealtimeURL stay empty and are resolved from Environment by LoadConfig.
func (c *Config) LoadDefaults() {
	c.Environment = EnvDevelopment
	c.RequestTimeout = 15 * time.Second
	c.ReconnectMaxAttempts = 5
	c.ReconnectDelay = 5 * time.Second
	c.DialTimeout = 30 * time.Second
	c.StorageBackend = StorageSQLite
	c.StoragePath = "market.db"
	c.RedisAddr = "localhost:6379"
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the optional JSON file, then
// the environment, then command-line flags. Later sources win.
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
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	if c.APIBaseURL == "" {
		base, ok := defaultAPIBaseURL[c.Environment]
		if !ok {
			return fmt.Errorf("unknown environment %q", c.Environment)
		}
		c.APIBaseURL = base
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.RealtimeURL == "" {
		ws, err := DeriveRealtimeURL(c.APIBaseURL)
		if err != nil {
			return err
		}
		c.RealtimeURL = ws
	}

	switch c.StorageBackend {
	case StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.ReconnectMaxAttempts < 0 {
		return fmt.Errorf("reconnect attempts must not be negative")
	}
	return nil
}

// DeriveRealtimeURL maps the REST base URL to the realtime endpoint:
// http(s) becomes ws(s) and a trailing /api is replaced by /ws.
func DeriveRealtimeURL(apiBase string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", apiBase, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}
	path := strings.TrimRight(u.Path, "/")
	path = strings.TrimSuffix(path, "/api")
	u.Path = path + "/ws"
	return u.String(), nil
}
