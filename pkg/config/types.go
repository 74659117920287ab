package config

import "time"

// Config represents the autopsy daemon and CLI configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	LogFormat  string           `yaml:"log_format"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Simulation SimulationConfig `yaml:"simulation"`
	Explainer  ExplainerConfig  `yaml:"explainer"`
}

// HTTPConfig represents the HTTP API listener
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// ExplainRatePerSecond limits /v1/explain; 0 disables the limit.
	ExplainRatePerSecond float64 `yaml:"explain_rate_per_second"`
	ExplainBurst         int     `yaml:"explain_burst"`
}

// GRPCConfig represents the gRPC listener
type GRPCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// SimulationConfig represents simulation settings
type SimulationConfig struct {
	Seed int64 `yaml:"seed"` // 0 seeds from the clock
}

// ExplainerConfig represents the language-model collaborator
type ExplainerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Endpoint         string `yaml:"endpoint"`
	Model            string `yaml:"model"`
	Timeout          string `yaml:"timeout"` // e.g., "60s"
	FailureThreshold int    `yaml:"failure_threshold"`
	Cooldown         string `yaml:"cooldown"` // e.g., "30s"
}

// GetTimeout parses the timeout string to time.Duration
func (e *ExplainerConfig) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(e.Timeout)
}

// GetCooldown parses the cooldown string to time.Duration
func (e *ExplainerConfig) GetCooldown() (time.Duration, error) {
	return time.ParseDuration(e.Cooldown)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "json",
		HTTP: HTTPConfig{
			Addr:                 ":8080",
			AllowedOrigins:       []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			ExplainRatePerSecond: 1,
			ExplainBurst:         3,
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Explainer: ExplainerConfig{
			Enabled:          true,
			Endpoint:         "http://127.0.0.1:11434/api/generate",
			Model:            "mistral",
			Timeout:          "60s",
			FailureThreshold: 3,
			Cooldown:         "30s",
		},
	}
}
