package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the CLI.
//
// RefreshTimeout bounds the shared refresh call. Zero leaves only
// RequestTimeout, which the HTTP transport applies to every call.
type Config struct {
	ServerBaseURL  string
	StoragePath    string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StoragePath = "session.db"
	c.RequestTimeout = 30 * time.Second
	c.RefreshTimeout = 0
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
