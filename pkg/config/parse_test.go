package config

import (
	"strings"
	"testing"
)

func TestParseConfigYAMLOverridesDefaults(t *testing.T) {
	yamlText := `
log_level: debug
http:
  addr: ":9999"
explainer:
  model: llama3
`
	cfg, err := ParseConfigYAMLString(yamlText)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("expected :9999, got %s", cfg.HTTP.Addr)
	}
	if cfg.Explainer.Model != "llama3" {
		t.Errorf("expected llama3, got %s", cfg.Explainer.Model)
	}
	// untouched fields keep defaults
	if cfg.LogFormat != "json" || cfg.GRPC.Addr != ":9090" || cfg.Explainer.Timeout != "60s" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseConfigYAMLEmpty(t *testing.T) {
	cfg, err := ParseConfigYAML(nil)
	if err != nil {
		t.Fatalf("ParseConfigYAML(nil): %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level, got %s", cfg.LogLevel)
	}
}

func TestParseConfigYAMLSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Unknown top-level key", "log_levle: debug\n"},
		{"Unknown nested key", "http:\n  port: 8080\n"},
		{"Bad log level", "log_level: verbose\n"},
		{"Bad log format", "log_format: xml\n"},
		{"Wrong type", "grpc:\n  enabled: \"yes please\"\n"},
		{"Negative burst", "http:\n  explain_burst: -1\n"},
		{"Endpoint without scheme", "explainer:\n  endpoint: localhost:11434\n"},
		{"Seed not an integer", "simulation:\n  seed: 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigYAMLString(tt.yaml)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "invalid config") {
				t.Errorf("expected invalid config error, got %v", err)
			}
		})
	}
}

func TestParseConfigYAMLMalformed(t *testing.T) {
	if _, err := ParseConfigYAMLString("http: [unterminated"); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidateWithCue(t *testing.T) {
	if err := ValidateWithCue("ok.yaml", []byte("log_level: warn\ngrpc:\n  enabled: false\n")); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}
	if err := ValidateWithCue("bad.yaml", []byte("explainer:\n  failure_threshold: -2\n")); err == nil {
		t.Error("expected schema violation")
	}
}
