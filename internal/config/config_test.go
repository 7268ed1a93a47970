package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "https://api.deepseek.com", cfg.AnalysisBaseURL)
	assert.Equal(t, "deepseek-chat", cfg.AnalysisModel)
	assert.Equal(t, 60*time.Second, cfg.AnalysisTimeout)
	assert.Equal(t, "mindscale.db", cfg.CacheDSN)
	assert.Equal(t, 50, cfg.ListLimit)
	assert.Empty(t, cfg.RemoteURL)
}

func TestRemoteConfigured(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.RemoteConfigured())

	cfg.RemoteURL = "https://example.test"
	assert.False(t, cfg.RemoteConfigured())

	cfg.RemoteKey = "key"
	assert.True(t, cfg.RemoteConfigured())
}

func TestParseJson_OverlaysOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"remote_url": "https://json.test",
		"remote_key": "json-key",
		"analysis_timeout": "90s"
	}`), 0o600))

	origArgs := os.Args
	os.Args = []string{"mindscale", "-c", path}
	t.Cleanup(func() { os.Args = origArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "https://json.test", cfg.RemoteURL)
	assert.Equal(t, "json-key", cfg.RemoteKey)
	assert.Equal(t, 90*time.Second, cfg.AnalysisTimeout)

	// Untouched fields keep their defaults.
	assert.Equal(t, "deepseek-chat", cfg.AnalysisModel)
	assert.Equal(t, "mindscale.db", cfg.CacheDSN)
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"mindscale"}
	t.Cleanup(func() { os.Args = origArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "mindscale.db", cfg.CacheDSN)
}

func TestParseEnv_Overlays(t *testing.T) {
	t.Setenv("MINDSCALE_REMOTE_URL", "https://env.test")
	t.Setenv("MINDSCALE_ANALYSIS_KEY", "env-analysis-key")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "https://env.test", cfg.RemoteURL)
	assert.Equal(t, "env-analysis-key", cfg.AnalysisKey)
	assert.Empty(t, cfg.RemoteKey)
}

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"mindscale", "-r", "https://flag.test", "-k", "flag-key", "-t", "30"}
	t.Cleanup(func() { os.Args = origArgs })

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "https://flag.test", cfg.RemoteURL)
	assert.Equal(t, "flag-key", cfg.RemoteKey)
	assert.Equal(t, 30*time.Second, cfg.AnalysisTimeout)
}
