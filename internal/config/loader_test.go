package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
auth:
  client_id: "id"
  client_secret: "secret"
extraction:
  year: 2023
  record_limit: 25
  window_size: 10
log:
  level: "debug"
  format: "console"
`

func createTempConfigFile(t *testing.T, content string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2023, cfg.Extraction.Year)
	assert.Equal(t, 25, cfg.Extraction.RecordLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FromFile_AppliesDefaults(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOPSBaseURL, cfg.OPS.BaseURL)
	assert.Equal(t, DefaultRegisterBaseURL, cfg.OPS.RegisterBaseURL)
	assert.Equal(t, 2*time.Second, cfg.OPS.CallDelay)
	assert.Equal(t, 6*time.Second, cfg.OPS.WindowDelay)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("non_existent_config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_WithoutCredentials(t *testing.T) {
	// Credentials may arrive later via CLI flags, so loading succeeds
	// without them.
	path := createTempConfigFile(t, `
extraction:
  year: 2023
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.ClientID)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	setEnvVars(t, map[string]string{
		"EPODATA_EXTRACTION_YEAR": "2019",
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2019, cfg.Extraction.Year)
}

func TestLoadFromEnv_CredentialsOnly(t *testing.T) {
	setEnvVars(t, map[string]string{
		"EPODATA_AUTH_CLIENT_ID":     "env-id",
		"EPODATA_AUTH_CLIENT_SECRET": "env-secret",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Auth.ClientID)
	assert.Equal(t, DefaultYear, cfg.Extraction.Year)
	assert.Equal(t, DefaultRecordLimit, cfg.Extraction.RecordLimit)
}

func TestValidate_RejectsUnknownCountry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Extraction.Country = "XX"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country")
}

func TestValidate_AcceptsKnownCountryCaseInsensitive(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Extraction.Country = "ep"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CountryList(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Extraction.Country = "EP, us"
	assert.NoError(t, cfg.Validate())

	cfg.Extraction.Country = "EP,XX"
	assert.Error(t, cfg.Validate())
}

func TestValidate_WindowSizeBounds(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	cfg.Extraction.WindowSize = 101
	assert.Error(t, cfg.Validate())

	cfg.Extraction.WindowSize = 100
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MetricsNeedsListenAddr(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	cfg.Metrics.ListenAddr = ""
	assert.Error(t, cfg.Validate())
}
