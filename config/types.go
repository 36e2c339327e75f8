package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Lob     LobConfig     `mapstructure:"lob"`
	Output  OutputConfig  `mapstructure:"output"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LobConfig holds Lob API connection details
type LobConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	APIVersion string        `mapstructure:"api_version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// OutputConfig selects how command results are rendered
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// BatchConfig bounds bulk verification and cancellation
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// WebhookConfig configures the webhook receiver
type WebhookConfig struct {
	Listen    string        `mapstructure:"listen"`
	Secret    string        `mapstructure:"secret"`
	Tolerance time.Duration `mapstructure:"tolerance"`
}

// FilterConfig contains named filter presets (name -> expression)
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
