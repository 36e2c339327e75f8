package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s0up4200/lobster/batch"
	"github.com/s0up4200/lobster/lob"
)

// EnvPrefix prefixes environment overrides, e.g. LOBSTER_LOB_API_KEY.
const EnvPrefix = "LOBSTER"

// Load loads the configuration from configPath, or from config.yaml in the
// standard locations when configPath is empty. A missing default file is not
// an error so the whole configuration can come from the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lobster"))
		}
		v.AddConfigPath("/etc/lobster/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("lob.api_key", "")
	v.SetDefault("lob.base_url", lob.DefaultBaseURL)
	v.SetDefault("lob.api_version", lob.APIVersion)
	v.SetDefault("lob.timeout", time.Duration(0))

	v.SetDefault("output.format", "console")

	v.SetDefault("batch.concurrency", batch.DefaultConcurrency)

	v.SetDefault("webhook.listen", ":8080")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.tolerance", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Lob.APIKey == "" || cfg.Lob.APIKey == "your-api-key-here" {
		return fmt.Errorf("lob.api_key must be set to a valid API key")
	}
	if cfg.Lob.BaseURL == "" {
		return fmt.Errorf("lob.base_url is required")
	}
	if cfg.Lob.Timeout < 0 {
		return fmt.Errorf("lob.timeout must not be negative")
	}

	switch cfg.Output.Format {
	case "console", "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format: %s (must be console, json or yaml)", cfg.Output.Format)
	}

	if cfg.Batch.Concurrency < 1 || cfg.Batch.Concurrency > batch.MaxConcurrency {
		return fmt.Errorf("batch.concurrency must be between 1 and %d", batch.MaxConcurrency)
	}

	if cfg.Webhook.Tolerance < 0 {
		return fmt.Errorf("webhook.tolerance must not be negative")
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
