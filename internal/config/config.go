// Package config holds the configuration model for the tempo tool and
// loads it from files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MeKo-Tech/tempo/internal/stopwatch"
)

// Config represents the complete configuration for tempo. It covers
// all commands (run, bench, serve) and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Timing configuration
	Timing TimingConfig `mapstructure:"timing" yaml:"timing" json:"timing"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Probes to run in serve mode
	Probes []ProbeConfig `mapstructure:"probes" yaml:"probes" json:"probes"`
}

// TimingConfig contains calibration-loop settings.
type TimingConfig struct {
	Label         string  `mapstructure:"label" yaml:"label" json:"label"`
	TargetSeconds float64 `mapstructure:"target_seconds" yaml:"target_seconds" json:"target_seconds"`
	MaxTries      int     `mapstructure:"max_tries" yaml:"max_tries" json:"max_tries"`
	Warmup        int     `mapstructure:"warmup" yaml:"warmup" json:"warmup"`
}

// Target returns the calibration target as a duration.
func (t TimingConfig) Target() time.Duration {
	return time.Duration(t.TargetSeconds * float64(time.Second))
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	Style  string `mapstructure:"style" yaml:"style" json:"style"`
}

// Formatter resolves the configured style to a stopwatch formatter.
func (o OutputConfig) Formatter() stopwatch.Formatter {
	if o.Style == "big" {
		return stopwatch.Big
	}
	return stopwatch.Simple
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	HistorySize     int    `mapstructure:"history_size" yaml:"history_size" json:"history_size"`
}

// ProbeConfig describes one command the serve mode times repeatedly.
type ProbeConfig struct {
	Name            string   `mapstructure:"name" yaml:"name" json:"name"`
	Command         string   `mapstructure:"command" yaml:"command" json:"command"`
	Args            []string `mapstructure:"args" yaml:"args" json:"args"`
	IntervalSeconds float64  `mapstructure:"interval_seconds" yaml:"interval_seconds" json:"interval_seconds"`
}

// Interval returns the probe interval as a duration.
func (p ProbeConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds * float64(time.Second))
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Timing: TimingConfig{
			Label:         stopwatch.DefaultLabel,
			TargetSeconds: 1.0,
			MaxTries:      stopwatch.MaxTries,
			Warmup:        0,
		},
		Output: OutputConfig{
			Format: "text",
			Style:  "simple",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			HistorySize:     100,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "yaml"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	validStyles := []string{"simple", "big"}
	if c.Output.Style != "" && !contains(validStyles, c.Output.Style) {
		return fmt.Errorf("invalid output style: %s (must be one of: %s)", c.Output.Style, strings.Join(validStyles, ", "))
	}

	if c.Timing.MaxTries < 1 {
		return fmt.Errorf("invalid max_tries: %d (must be at least 1)", c.Timing.MaxTries)
	}
	if c.Timing.Warmup < 0 {
		return fmt.Errorf("invalid warmup: %d (must not be negative)", c.Timing.Warmup)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.HistorySize < 1 {
		return fmt.Errorf("invalid history_size: %d (must be at least 1)", c.Server.HistorySize)
	}

	for _, p := range c.Probes {
		if p.Name == "" {
			return fmt.Errorf("probe without a name")
		}
		if p.Command == "" {
			return fmt.Errorf("probe %s: command must not be empty", p.Name)
		}
		if p.IntervalSeconds <= 0 {
			return fmt.Errorf("probe %s: interval_seconds must be positive", p.Name)
		}
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
