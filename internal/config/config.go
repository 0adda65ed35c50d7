// Package config loads process configuration from the environment. CLI
// flags override these values where both exist.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
	}
	Solver struct {
		PackSize      int     `env:"SOLVER_PACK_SIZE" envDefault:"30"`
		MaxIterations int     `env:"SOLVER_MAX_ITERATIONS" envDefault:"100"`
		TSIterations  int     `env:"SOLVER_TS_ITERATIONS" envDefault:"50"`
		TabuTenure    int     `env:"SOLVER_TABU_TENURE" envDefault:"10"`
		TSEvery       int     `env:"SOLVER_TS_EVERY" envDefault:"1"`
		Jitter        float64 `env:"SOLVER_JITTER" envDefault:"0"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development runs default to human-readable debug output
	if cfg.Environment == "development" {
		if cfg.Logging.Level == "info" {
			cfg.Logging.Level = "debug"
		}
		if cfg.Logging.Format == "json" {
			cfg.Logging.Format = "console"
		}
	}

	return cfg, nil
}
