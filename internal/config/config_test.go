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
	t.Setenv("HTTP_PORT", "")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 10, cfg.MaxPapers)
	assert.Equal(t, 5, cfg.MaxWebResults)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MAX_PAPERS", "not-a-number")
	t.Setenv("SERPAPI_API_KEY", "k")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 10, cfg.MaxPapers)
	assert.Equal(t, "k", cfg.SerpAPIKey)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "http_port: 7000\nmax_web_results: 3\nllm_timeout: 5s\nhf_model: tiny\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "")
	t.Setenv("HUGGINGFACE_API_KEY", "secret")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.HTTPPort)
	assert.Equal(t, 3, cfg.MaxWebResults)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "tiny", cfg.HFModel)
	assert.Equal(t, "secret", cfg.HFAPIKey)
}

func TestLoadMissingOverlay(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
