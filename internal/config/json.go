package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mindscale/mindscale/internal/flagx"
	"github.com/mindscale/mindscale/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the analysis timeout either as a string
// like "60s" or as integer nanoseconds.
type JsonConfig struct {
	RemoteURL       string         `json:"remote_url"`
	RemoteKey       string         `json:"remote_key"`
	AnalysisKey     string         `json:"analysis_key"`
	AnalysisBaseURL string         `json:"analysis_base_url"`
	AnalysisModel   string         `json:"analysis_model"`
	AnalysisTimeout timex.Duration `json:"analysis_timeout"`
	CacheDSN        string         `json:"cache_dsn"`
	ListLimit       int            `json:"list_limit"`
}

// parseJson overlays cfg with values from the file given via -c/-config.
// Absent file means nothing to do; an unreadable file is a startup error.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteURL != "" {
		cfg.RemoteURL = jc.RemoteURL
	}
	if jc.RemoteKey != "" {
		cfg.RemoteKey = jc.RemoteKey
	}
	if jc.AnalysisKey != "" {
		cfg.AnalysisKey = jc.AnalysisKey
	}
	if jc.AnalysisBaseURL != "" {
		cfg.AnalysisBaseURL = jc.AnalysisBaseURL
	}
	if jc.AnalysisModel != "" {
		cfg.AnalysisModel = jc.AnalysisModel
	}
	if jc.AnalysisTimeout.Duration != 0 {
		cfg.AnalysisTimeout = time.Duration(jc.AnalysisTimeout.Duration)
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.ListLimit != 0 {
		cfg.ListLimit = jc.ListLimit
	}
}
