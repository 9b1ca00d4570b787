// Package config loads and validates simulation run configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/logger"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file-level configuration of a simulate/verify invocation.
type Config struct {
	Run     Run           `yaml:"run"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// Run fully determines a simulation run. Two runs with equal Run values
// produce identical results.
type Run struct {
	Market      MarketConfig   `yaml:"market"`
	Insiders    InsiderConfig  `yaml:"insiders"`
	Outsiders   OutsiderConfig `yaml:"outsiders"`
	Duration    int            `yaml:"duration"`     // number of ticks
	PublicEntry int            `yaml:"public_entry"` // tick at which outsiders enter, >= 1
	Seed        uint64         `yaml:"seed"`
}

// MarketConfig configures the shared market.
type MarketConfig struct {
	Mode              domain.MarketMode `yaml:"mode"`
	InitialPrice      float64           `yaml:"initial_price"`
	ImpactCoefficient float64           `yaml:"impact_coefficient"`
}

// InsiderConfig configures the insider population.
type InsiderConfig struct {
	Count       int     `yaml:"count"`
	Capital     float64 `yaml:"capital"`
	Rationality float64 `yaml:"rationality"`
	EntryDelta  int     `yaml:"entry_delta"` // ticks after launch, >= 1
}

// OutsiderConfig configures the outsider population.
type OutsiderConfig struct {
	Count       int     `yaml:"count"`
	Capital     float64 `yaml:"capital"`
	Rationality float64 `yaml:"rationality"`
	FOMOFactor  float64 `yaml:"fomo_factor"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LoggerOptions maps the logging section onto logger options, rotation included.
func (l LoggingConfig) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// OutputConfig configures where artifacts are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Chart   bool   `yaml:"chart"`
	Metrics bool   `yaml:"metrics"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Run: DefaultRun(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Output: OutputConfig{
			Dir:     "output",
			Chart:   true,
			Metrics: true,
		},
	}
}

// DefaultRun returns the reference run: 5 insiders, 50 outsiders, 100 ticks,
// insider entry delta 1, public entry at tick 20.
func DefaultRun() Run {
	return Run{
		Market: MarketConfig{
			Mode:              domain.MarketIsolated,
			InitialPrice:      0.01,
			ImpactCoefficient: 1e-6,
		},
		Insiders: InsiderConfig{
			Count:       5,
			Capital:     100000,
			Rationality: 0.95,
			EntryDelta:  1,
		},
		Outsiders: OutsiderConfig{
			Count:       50,
			Capital:     10000,
			Rationality: 0.5,
			FOMOFactor:  0.3,
		},
		Duration:    100,
		PublicEntry: 20,
		Seed:        1,
	}
}

// Load reads a YAML file over the defaults. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return invalid("logging.format", "must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Validate checks that a run can be simulated.
func (r Run) Validate() error {
	if _, err := domain.ParseMarketMode(string(r.Market.Mode)); err != nil {
		return invalid("market.mode", "%v", err)
	}
	if !finite(r.Market.InitialPrice) || r.Market.InitialPrice < 0 {
		return invalid("market.initial_price", "must be a finite number >= 0")
	}
	if !finite(r.Market.ImpactCoefficient) || r.Market.ImpactCoefficient < 0 {
		return invalid("market.impact_coefficient", "must be a finite number >= 0")
	}
	if r.Insiders.Count < 0 {
		return invalid("insiders.count", "must be >= 0")
	}
	if r.Outsiders.Count < 0 {
		return invalid("outsiders.count", "must be >= 0")
	}
	if !finite(r.Insiders.Capital) || r.Insiders.Capital < 0 {
		return invalid("insiders.capital", "must be a finite number >= 0")
	}
	if !finite(r.Outsiders.Capital) || r.Outsiders.Capital < 0 {
		return invalid("outsiders.capital", "must be a finite number >= 0")
	}
	if !unit(r.Insiders.Rationality) {
		return invalid("insiders.rationality", "must be in [0, 1]")
	}
	if !unit(r.Outsiders.Rationality) {
		return invalid("outsiders.rationality", "must be in [0, 1]")
	}
	if !unit(r.Outsiders.FOMOFactor) {
		return invalid("outsiders.fomo_factor", "must be in [0, 1]")
	}
	// Tick 0 is launch and is never stepped, so an entry there would never fire.
	if r.Insiders.EntryDelta < 1 {
		return invalid("insiders.entry_delta", "must be >= 1")
	}
	if r.PublicEntry < 1 {
		return invalid("public_entry", "must be >= 1")
	}
	if r.Duration < 0 {
		return invalid("duration", "must be >= 0")
	}
	return nil
}

// Fingerprint is a canonical text form of the run, used to derive run ids.
func (r Run) Fingerprint() string {
	return fmt.Sprintf("%s|%g|%g|%d|%g|%g|%d|%d|%g|%g|%g|%d|%d|%d",
		r.Market.Mode, r.Market.InitialPrice, r.Market.ImpactCoefficient,
		r.Insiders.Count, r.Insiders.Capital, r.Insiders.Rationality, r.Insiders.EntryDelta,
		r.Outsiders.Count, r.Outsiders.Capital, r.Outsiders.Rationality, r.Outsiders.FOMOFactor,
		r.Duration, r.PublicEntry, r.Seed)
}

// WithMode returns a copy of r trading in mode.
func (r Run) WithMode(mode domain.MarketMode) Run {
	r.Market.Mode = mode
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}
