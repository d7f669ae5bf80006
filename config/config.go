// Package config loads engine configuration from a config file and the
// environment (MOSAIC_ prefix), with sensible defaults for interactive
// use.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// CachePath is the SQLite analysis cache location.
	CachePath string `mapstructure:"cache-path"`

	// Default budgets, overridable per request.
	MaxTime     time.Duration `mapstructure:"max-time"`
	MaxRollouts int           `mapstructure:"max-rollouts"`
	MaxDepth    int           `mapstructure:"max-depth"`

	UCBConstant   float64 `mapstructure:"ucb-constant"`
	RolloutCutoff int     `mapstructure:"rollout-cutoff"`
	Seed          uint64  `mapstructure:"seed"`

	LogLevel string `mapstructure:"log-level"`
}

// Load reads mosaic.yaml from the working directory if present, then
// applies MOSAIC_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("mosaic")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("cache-path", "mosaic-analysis.db")
	v.SetDefault("max-time", 5*time.Second)
	v.SetDefault("max-rollouts", 2000)
	v.SetDefault("max-depth", 3)
	v.SetDefault("ucb-constant", 1.41421356)
	v.SetDefault("rollout-cutoff", 12)
	v.SetDefault("seed", 0)
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix("mosaic")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
