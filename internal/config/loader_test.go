package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v == nil {
		t.Error("Loader viper instance is nil")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }() // Ignore error in cleanup

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Errorf("Load() unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should get default values
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Timing.TargetSeconds != 1.0 {
		t.Errorf("Expected default target 1.0, got %v", cfg.Timing.TargetSeconds)
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tempo.yaml")

	yamlContent := `
log_level: debug
verbose: true
timing:
  label: startup
  target_seconds: 0.5
  max_tries: 25
output:
  format: json
  style: big
server:
  host: 0.0.0.0
  port: 9090
probes:
  - name: ping
    command: ping
    args: ["-c", "1", "localhost"]
    interval_seconds: 5
`

	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got %s", cfg.LogLevel)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose to be true")
	}
	if cfg.Timing.Label != "startup" {
		t.Errorf("Expected label 'startup', got %s", cfg.Timing.Label)
	}
	if cfg.Timing.MaxTries != 25 {
		t.Errorf("Expected max_tries 25, got %d", cfg.Timing.MaxTries)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format 'json', got %s", cfg.Output.Format)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Probes) != 1 || cfg.Probes[0].Name != "ping" {
		t.Errorf("Expected one probe 'ping', got %+v", cfg.Probes)
	}
}

// TestLoadWithInvalidConfig tests that validation failures surface.
func TestLoadWithInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "tempo.yaml")

	yamlContent := `
log_level: shouting
`
	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadWithFile(configFile)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected log level error, got: %v", err)
	}
}

// TestLoadWithMissingFile tests the error for a nonexistent file path.
func TestLoadWithMissingFile(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadWithFile("/nonexistent/tempo.yaml")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected 'does not exist' error, got: %v", err)
	}
}

// TestGetConfigSearchPaths tests the search path list.
func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	if len(paths) == 0 {
		t.Fatal("expected at least one search path")
	}
	if paths[0] != "." {
		t.Errorf("expected current directory first, got %s", paths[0])
	}
	found := false
	for _, p := range paths {
		if p == "/etc/tempo" {
			found = true
		}
	}
	if !found {
		t.Error("expected /etc/tempo in search paths")
	}
}
