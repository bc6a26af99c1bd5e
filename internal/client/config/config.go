// Package config loads runtime configuration for the tracker CLI.
//
// Sources and precedence: built-in defaults, then an optional JSON file
// (selected with -c/-config), then command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend server
//	-d string   path to the local database file
//	-i int      server reachability check interval (seconds)
package config

import "time"

type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabasePath = "fittrack.db"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig builds a Config by applying defaults, then JSON, then flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
