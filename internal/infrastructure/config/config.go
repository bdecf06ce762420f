package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/iho/txengine/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Processing
	Workers        int    `env:"WORKERS"         envDefault:"1"`
	AmountRounding string `env:"AMOUNT_ROUNDING" envDefault:"half_even"`

	// Output
	ReportFormat string `env:"REPORT_FORMAT" envDefault:"csv"`
	MetricsFile  string `env:"METRICS_FILE"  envDefault:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if _, err := domain.ParseRounding(c.AmountRounding); err != nil {
		return err
	}

	switch c.ReportFormat {
	case "csv", "json":
	default:
		return fmt.Errorf("unknown report format %q", c.ReportFormat)
	}

	return nil
}

// Rounding returns the parsed amount rounding policy.
func (c *Config) Rounding() domain.Rounding {
	r, err := domain.ParseRounding(c.AmountRounding)
	if err != nil {
		return domain.DefaultRounding
	}
	return r
}
