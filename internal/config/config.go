// Package config loads library settings from SENTINELS_* environment
// variables. The library has no config file; everything it needs at runtime
// is a handful of debug and tracing switches.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the sentinels library.
type Config struct {
	// Debug enables the internal debug log. Off by default.
	Debug bool `mapstructure:"debug"`

	// LogPath is where the debug log is written. Empty means stderr.
	LogPath string `mapstructure:"log_path"`

	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracingConfig configures the optional trace provider.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the export backend: "none", "stdout", or "file".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// SampleRate is the fraction of traces to sample, 0.0–1.0.
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName identifies this library in exported spans.
	ServiceName string `mapstructure:"service_name"`
}

// Default returns the built-in defaults: everything off, stderr logging.
func Default() Config {
	return Config{
		Debug:   false,
		LogPath: "",
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "none",
			FilePath:    "",
			SampleRate:  1.0,
			ServiceName: "sentinels",
		},
	}
}

// Load reads settings from the environment on top of the defaults.
// Environment variables are prefixed with SENTINELS_ and nested keys use
// underscores, e.g. SENTINELS_TRACING_EXPORTER=stdout.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SENTINELS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("debug", def.Debug)
	v.SetDefault("log_path", def.LogPath)
	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.exporter", def.Tracing.Exporter)
	v.SetDefault("tracing.file_path", def.Tracing.FilePath)
	v.SetDefault("tracing.sample_rate", def.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

// Validate checks the loaded settings.
func (c Config) Validate() error {
	t := c.Tracing
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	switch t.Exporter {
	case "", "none", "stdout", "file":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"stdout\", or \"file\", got %q", t.Exporter)
	}
	if t.Exporter == "file" && t.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	return nil
}
