package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-level defaults. Per-request values in the
// solve document override the solver budget; everything else is ambient.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Solver      struct {
		TimeoutSeconds float64 `env:"TIMEOUT_SECONDS" envDefault:"30"`
		Workers        int     `env:"WORKERS" envDefault:"4"`
	} `envPrefix:"SOLVER_"`
	Logging struct {
		Dir string `env:"DIR" envDefault:"logs"`
	} `envPrefix:"LOG_"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SHIFTGRID_"}); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			// Only the first error keeps the output readable.
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
