package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes on top of Default and
// validates it.
func ParseConfigYAML(data []byte) (*Config, error) {
	return parseConfig("config.yaml", data)
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it.
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

func parseConfig(filename string, data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) > 0 {
		if err := ValidateWithCue(filename, data); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
