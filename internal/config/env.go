package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"token-launch-sim/internal/domain"
)

// Environment variables that override file values.
const (
	EnvMarket            = "SIM_MARKET"
	EnvSeed              = "SIM_SEED"
	EnvInsiders          = "SIM_INSIDERS"
	EnvOutsiders         = "SIM_OUTSIDERS"
	EnvDuration          = "SIM_DURATION"
	EnvInsiderEntryDelta = "SIM_INSIDER_ENTRY_DELTA"
	EnvPublicEntry       = "SIM_PUBLIC_ENTRY"
	EnvInitialPrice      = "SIM_INITIAL_PRICE"
	EnvImpact            = "SIM_IMPACT_COEFFICIENT"
	EnvOutputDir         = "SIM_OUTPUT_DIR"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvLogFile           = "LOG_FILE"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvMarket); ok {
		c.Run.Market.Mode = domain.MarketMode(strings.ToLower(v))
	}
	if err := envUint(EnvSeed, &c.Run.Seed); err != nil {
		return err
	}
	if err := envInt(EnvInsiders, &c.Run.Insiders.Count); err != nil {
		return err
	}
	if err := envInt(EnvOutsiders, &c.Run.Outsiders.Count); err != nil {
		return err
	}
	if err := envInt(EnvDuration, &c.Run.Duration); err != nil {
		return err
	}
	if err := envInt(EnvInsiderEntryDelta, &c.Run.Insiders.EntryDelta); err != nil {
		return err
	}
	if err := envInt(EnvPublicEntry, &c.Run.PublicEntry); err != nil {
		return err
	}
	if err := envFloat(EnvInitialPrice, &c.Run.Market.InitialPrice); err != nil {
		return err
	}
	if err := envFloat(EnvImpact, &c.Run.Market.ImpactCoefficient); err != nil {
		return err
	}
	if v, ok := lookup(EnvOutputDir); ok {
		c.Output.Dir = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Logging.File = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envInt(key string, dst *int) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	*dst = n
	return nil
}

func envUint(key string, dst *uint64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
	*dst = f
	return nil
}
