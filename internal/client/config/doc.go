// Package config loads runtime configuration for the marketplace client.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. MARKET_* environment variables, after an optional .env file is loaded.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   REST api base url, e.g. http://localhost:5001/api
//	-w string   realtime url; derived from -a when empty
//	-t int      request timeout (seconds)
//	-r int      realtime reconnect attempts, 0 for unbounded
//	-s string   sqlite storage path
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:5001/api",
//	  "environment": "development",
//	  "request_timeout": "15s",
//	  "reconnect_max_attempts": 5,
//	  "reconnect_delay": "5s",
//	  "storage_backend": "sqlite",
//	  "storage_path": "market.db"
//	}
//
// When APIBaseURL is left empty it is chosen from Environment.
package config
