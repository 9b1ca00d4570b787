package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launch-sim/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	r := cfg.Run
	assert.Equal(t, domain.MarketIsolated, r.Market.Mode)
	assert.Equal(t, 0.01, r.Market.InitialPrice)
	assert.Equal(t, 5, r.Insiders.Count)
	assert.Equal(t, 50, r.Outsiders.Count)
	assert.Equal(t, 100, r.Duration)
	assert.Equal(t, 1, r.Insiders.EntryDelta)
	assert.Equal(t, 20, r.PublicEntry)
	assert.Equal(t, 100000.0, r.Insiders.Capital)
	assert.Equal(t, 0.95, r.Insiders.Rationality)
	assert.Equal(t, 10000.0, r.Outsiders.Capital)
	assert.Equal(t, 0.5, r.Outsiders.Rationality)
	assert.Equal(t, 0.3, r.Outsiders.FOMOFactor)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, "sim.yml", `run:
  market:
    mode: synthetic
  insiders:
    count: 3
  duration: 40
  seed: 99
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.MarketSynthetic, cfg.Run.Market.Mode)
	assert.Equal(t, 3, cfg.Run.Insiders.Count)
	assert.Equal(t, 40, cfg.Run.Duration)
	assert.Equal(t, uint64(99), cfg.Run.Seed)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched fields keep defaults.
	assert.Equal(t, 50, cfg.Run.Outsiders.Count)
	assert.Equal(t, 0.01, cfg.Run.Market.InitialPrice)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yml", "run: [unclosed")
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Run)
		field  string
	}{
		{"mode", func(r *Run) { r.Market.Mode = "orderbook" }, "market.mode"},
		{"negative price", func(r *Run) { r.Market.InitialPrice = -1 }, "market.initial_price"},
		{"negative impact", func(r *Run) { r.Market.ImpactCoefficient = -1e-6 }, "market.impact_coefficient"},
		{"negative insiders", func(r *Run) { r.Insiders.Count = -1 }, "insiders.count"},
		{"negative outsiders", func(r *Run) { r.Outsiders.Count = -2 }, "outsiders.count"},
		{"negative capital", func(r *Run) { r.Outsiders.Capital = -1 }, "outsiders.capital"},
		{"rationality above one", func(r *Run) { r.Insiders.Rationality = 1.2 }, "insiders.rationality"},
		{"fomo below zero", func(r *Run) { r.Outsiders.FOMOFactor = -0.1 }, "outsiders.fomo_factor"},
		{"negative duration", func(r *Run) { r.Duration = -5 }, "duration"},
		{"negative public entry", func(r *Run) { r.PublicEntry = -1 }, "public_entry"},
		{"negative entry delta", func(r *Run) { r.Insiders.EntryDelta = -1 }, "insiders.entry_delta"},
		{"zero public entry", func(r *Run) { r.PublicEntry = 0 }, "public_entry"},
		{"zero entry delta", func(r *Run) { r.Insiders.EntryDelta = 0 }, "insiders.entry_delta"},
		{"nan price", func(r *Run) { r.Market.InitialPrice = math.NaN() }, "market.initial_price"},
		{"inf price", func(r *Run) { r.Market.InitialPrice = math.Inf(1) }, "market.initial_price"},
		{"nan impact", func(r *Run) { r.Market.ImpactCoefficient = math.NaN() }, "market.impact_coefficient"},
		{"inf impact", func(r *Run) { r.Market.ImpactCoefficient = math.Inf(1) }, "market.impact_coefficient"},
		{"nan insider capital", func(r *Run) { r.Insiders.Capital = math.NaN() }, "insiders.capital"},
		{"inf outsider capital", func(r *Run) { r.Outsiders.Capital = math.Inf(1) }, "outsiders.capital"},
		{"nan rationality", func(r *Run) { r.Outsiders.Rationality = math.NaN() }, "outsiders.rationality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRun()
			tt.mutate(&r)

			err := r.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestRunValidate_EdgeValuesAccepted(t *testing.T) {
	r := DefaultRun()
	r.Insiders.Count = 0
	r.Outsiders.Count = 0
	r.Duration = 0
	r.Market.InitialPrice = 0
	r.Outsiders.FOMOFactor = 1
	assert.NoError(t, r.Validate())
}

func TestLoggingConfig_LoggerOptions(t *testing.T) {
	lc := LoggingConfig{
		Level:      "debug",
		Format:     "json",
		File:       "sim.log",
		MaxSizeMB:  10,
		MaxBackups: 2,
		MaxAgeDays: 7,
		Compress:   true,
	}

	opts := lc.LoggerOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, "json", opts.Format)
	assert.Equal(t, "sim.log", opts.File)
	assert.Equal(t, 10, opts.MaxSizeMB)
	assert.Equal(t, 2, opts.MaxBackups)
	assert.Equal(t, 7, opts.MaxAgeDays)
	assert.True(t, opts.Compress)
	assert.Nil(t, opts.Output)
}

func TestConfigValidate_LogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestFingerprint(t *testing.T) {
	a := DefaultRun()
	b := DefaultRun()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Seed = 2
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := a.WithMode(domain.MarketSynthetic)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Equal(t, domain.MarketIsolated, a.Market.Mode)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMarket, "Synthetic")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvOutsiders, "10")
	t.Setenv(EnvInitialPrice, "0.5")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvOutputDir, "/tmp/out")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, domain.MarketSynthetic, cfg.Run.Market.Mode)
	assert.Equal(t, uint64(42), cfg.Run.Seed)
	assert.Equal(t, 10, cfg.Run.Outsiders.Count)
	assert.Equal(t, 0.5, cfg.Run.Market.InitialPrice)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, 5, cfg.Run.Insiders.Count)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	t.Setenv(EnvDuration, "ten")

	cfg := Default()
	err := cfg.ApplyEnv()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), EnvDuration)
}

func TestApplyEnv_NonFiniteRejectedByValidate(t *testing.T) {
	t.Setenv(EnvInitialPrice, "NaN")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	require.True(t, math.IsNaN(cfg.Run.Market.InitialPrice))

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "market.initial_price")
}

func TestLoad_NonFiniteRejectedByValidate(t *testing.T) {
	path := writeFile(t, "inf.yml", "run:\n  outsiders:\n    capital: .inf\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "outsiders.capital")
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "SIM_PUBLIC_ENTRY=33\n")
	t.Setenv(EnvPublicEntry, "")
	os.Unsetenv(EnvPublicEntry)

	require.NoError(t, LoadDotEnv(path))
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 33, cfg.Run.PublicEntry)

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
