// Package config loads runtime settings for the mindscale CLI. Sources are
// applied in order — defaults, JSON file, environment (.env aware), flags —
// with later sources taking precedence. Settings the user saved from the CLI
// live in the local cache and are overlaid separately at startup, only where
// these sources left a field empty.
package config

import "time"

// Config holds runtime settings for the mindscale CLI.
//
// RemoteURL/RemoteKey absent means local-only mode. AnalysisKey absent blocks
// submissions until it is configured.
type Config struct {
	RemoteURL       string
	RemoteKey       string
	AnalysisKey     string
	AnalysisBaseURL string
	AnalysisModel   string
	AnalysisTimeout time.Duration
	CacheDSN        string
	ListLimit       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AnalysisBaseURL = "https://api.deepseek.com"
	c.AnalysisModel = "deepseek-chat"
	c.AnalysisTimeout = 60 * time.Second
	c.CacheDSN = "mindscale.db"
	c.ListLimit = 50
}

// RemoteConfigured reports whether a remote store endpoint and credential are
// both present.
func (c *Config) RemoteConfigured() bool {
	return c.RemoteURL != "" && c.RemoteKey != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment, and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
