package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() *Config {
	return &Config{
		Lob:     LobConfig{APIKey: "test_key", BaseURL: "https://api.lob.com/v1"},
		Output:  OutputConfig{Format: "console"},
		Batch:   BatchConfig{Concurrency: 10},
		Webhook: WebhookConfig{Tolerance: 5 * time.Minute},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
lob:
  api_key: test_abc
  timeout: 30s
output:
  format: yaml
batch:
  concurrency: 4
webhook:
  secret: shh
filter:
  presets:
    campaign: hasMetadata("campaign")
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test_abc", cfg.Lob.APIKey)
	assert.Equal(t, "https://api.lob.com/v1", cfg.Lob.BaseURL)
	assert.Equal(t, "2019-06-01", cfg.Lob.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Lob.Timeout)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, ":8080", cfg.Webhook.Listen)
	assert.Equal(t, "shh", cfg.Webhook.Secret)
	assert.Equal(t, 5*time.Minute, cfg.Webhook.Tolerance)
	assert.Equal(t, map[string]string{"campaign": `hasMetadata("campaign")`}, cfg.Filter.Presets)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "lob:\n  api_key: from_file\n")
	t.Setenv("LOBSTER_LOB_API_KEY", "from_env")
	t.Setenv("LOBSTER_BATCH_CONCURRENCY", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Lob.APIKey)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	t.Run("environment only", func(t *testing.T) {
		t.Setenv("LOBSTER_LOB_API_KEY", "env_only")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env_only", cfg.Lob.APIKey)
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lob.api_key")
	})
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "placeholder key", mutate: func(c *Config) { c.Lob.APIKey = "your-api-key-here" }, wantErr: "lob.api_key"},
		{name: "empty base url", mutate: func(c *Config) { c.Lob.BaseURL = "" }, wantErr: "lob.base_url"},
		{name: "negative timeout", mutate: func(c *Config) { c.Lob.Timeout = -time.Second }, wantErr: "lob.timeout"},
		{name: "output format", mutate: func(c *Config) { c.Output.Format = "xml" }, wantErr: "output.format"},
		{name: "concurrency too low", mutate: func(c *Config) { c.Batch.Concurrency = 0 }, wantErr: "batch.concurrency"},
		{name: "concurrency too high", mutate: func(c *Config) { c.Batch.Concurrency = 21 }, wantErr: "batch.concurrency"},
		{name: "negative tolerance", mutate: func(c *Config) { c.Webhook.Tolerance = -time.Minute }, wantErr: "webhook.tolerance"},
		{name: "empty preset", mutate: func(c *Config) { c.Filter.Presets = map[string]string{"x": " "} }, wantErr: `"x"`},
		{name: "logging level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "logging level"},
		{name: "logging format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
