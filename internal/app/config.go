package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Output formats understood by the report writer.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// CatalogPaths are extra .hcl files or directories merged over the
	// built-in examples.
	CatalogPaths []string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	Output    string `validate:"oneof=text yaml json"`
	// MetricsAddr enables the /metrics and /health endpoints when set.
	MetricsAddr string `validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// DefaultConfig returns the settings used when no flag overrides them.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		Output:    OutputText,
	}
}

func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
