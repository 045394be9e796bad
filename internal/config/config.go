package config

import (
	"github.com/caarlos0/env/v10"
)

// Settings holds build-level configuration for the modeling core.
type Settings struct {
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Build struct {
		// AllowRebuild replaces an existing container on duplicate key
		// registration instead of failing.
		AllowRebuild bool `env:"BUILD_ALLOW_REBUILD" envDefault:"false"`
		// SlopeTolerance is the absolute tolerance used when comparing
		// consecutive piecewise segment slopes for convexity detection.
		SlopeTolerance float64 `env:"BUILD_SLOPE_TOLERANCE" envDefault:"1e-9"`
	}
	Metrics struct {
		Enabled   bool   `env:"METRICS_ENABLED" envDefault:"false"`
		Namespace string `env:"METRICS_NAMESPACE" envDefault:"volta"`
	}
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	cfg := &Settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns settings with all defaults applied and no environment lookup.
func Default() *Settings {
	cfg := &Settings{}
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.Output = "stderr"
	cfg.Build.SlopeTolerance = 1e-9
	cfg.Metrics.Namespace = "volta"
	return cfg
}
