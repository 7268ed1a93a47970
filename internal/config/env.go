package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables, loading a .env file from
// the working directory first when one exists.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("MINDSCALE_REMOTE_URL"); v != "" {
		cfg.RemoteURL = v
	}
	if v := os.Getenv("MINDSCALE_REMOTE_KEY"); v != "" {
		cfg.RemoteKey = v
	}
	if v := os.Getenv("MINDSCALE_ANALYSIS_KEY"); v != "" {
		cfg.AnalysisKey = v
	}
	if v := os.Getenv("MINDSCALE_ANALYSIS_URL"); v != "" {
		cfg.AnalysisBaseURL = v
	}
	if v := os.Getenv("MINDSCALE_CACHE_DSN"); v != "" {
		cfg.CacheDSN = v
	}
}
