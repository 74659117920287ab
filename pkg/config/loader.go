package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvLogLevel         = "AUTOPSY_LOG_LEVEL"
	EnvSeed             = "AUTOPSY_SEED"
	EnvExplainerEnabled = "AUTOPSY_EXPLAINER_ENABLED"
	EnvOllamaURL        = "OLLAMA_URL"
	EnvOllamaModel      = "OLLAMA_MODEL"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := parseConfig(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the effective configuration: the file at path (or Default
// when path is empty), then variables from envFile (skipped when it does
// not exist), then the process environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment lookups.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		cfg.Simulation.Seed = seed
	}
	if v, ok := lookup(EnvExplainerEnabled); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvExplainerEnabled, v, err)
		}
		cfg.Explainer.Enabled = enabled
	}
	if v, ok := lookup(EnvOllamaURL); ok && v != "" {
		cfg.Explainer.Endpoint = v
	}
	if v, ok := lookup(EnvOllamaModel); ok && v != "" {
		cfg.Explainer.Model = v
	}
	return nil
}

// Validate checks a configuration that was changed after loading.
func Validate(cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("invalid log_format: %s (must be json or text)", cfg.LogFormat)
	}

	if cfg.HTTP.Addr == "" {
		return fmt.Errorf("http addr cannot be empty")
	}
	if cfg.HTTP.ExplainRatePerSecond < 0 {
		return fmt.Errorf("http explain_rate_per_second cannot be negative, got %f", cfg.HTTP.ExplainRatePerSecond)
	}
	if cfg.HTTP.ExplainRatePerSecond > 0 && cfg.HTTP.ExplainBurst <= 0 {
		return fmt.Errorf("http explain_burst must be positive when rate limiting is enabled")
	}

	if cfg.GRPC.Enabled && cfg.GRPC.Addr == "" {
		return fmt.Errorf("grpc addr cannot be empty when grpc is enabled")
	}

	if err := validateExplainer(&cfg.Explainer); err != nil {
		return fmt.Errorf("explainer validation failed: %w", err)
	}
	return nil
}

func validateExplainer(e *ExplainerConfig) error {
	if !e.Enabled {
		return nil
	}
	if !strings.HasPrefix(e.Endpoint, "http://") && !strings.HasPrefix(e.Endpoint, "https://") {
		return fmt.Errorf("endpoint must be an http(s) URL, got %q", e.Endpoint)
	}
	if e.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	timeout, err := e.GetTimeout()
	if err != nil {
		return fmt.Errorf("invalid timeout %s: %w", e.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", e.Timeout)
	}
	if e.FailureThreshold < 0 {
		return fmt.Errorf("failure_threshold cannot be negative, got %d", e.FailureThreshold)
	}
	if _, err := e.GetCooldown(); err != nil {
		return fmt.Errorf("invalid cooldown %s: %w", e.Cooldown, err)
	}
	return nil
}
