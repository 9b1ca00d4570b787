// Package orchestrator runs one seeded configuration against every market mode.
// It coordinates: simulation → analysis → invariant verification → comparison
package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"token-launch-sim/internal/analysis"
	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/logger"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage"
	"token-launch-sim/internal/verification"
)

// Orchestrator coordinates the per-mode runs.
type Orchestrator struct {
	runner    *simulation.Runner
	invariant *verification.InvariantVerifier
	metrics   *observability.Metrics
	modes     []domain.MarketMode
	log       *logrus.Entry
}

// Options for creating Orchestrator. All fields are optional.
type Options struct {
	TransactionStore storage.TransactionStore
	PriceStore       storage.PriceSeriesStore
	Metrics          *observability.Metrics
	Logger           logrus.FieldLogger

	// Modes to run, in order. Defaults to isolated then synthetic.
	Modes []domain.MarketMode
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	modes := opts.Modes
	if len(modes) == 0 {
		modes = []domain.MarketMode{domain.MarketIsolated, domain.MarketSynthetic}
	}
	return &Orchestrator{
		runner: simulation.NewRunner(simulation.RunnerOptions{
			TransactionStore: opts.TransactionStore,
			PriceStore:       opts.PriceStore,
			Metrics:          opts.Metrics,
			Logger:           opts.Logger,
		}),
		invariant: verification.NewInvariantVerifier(opts.Metrics),
		metrics:   opts.Metrics,
		modes:     modes,
		log:       logger.WithComponent(opts.Logger, "orchestrator"),
	}
}

// ModeOutcome is everything produced for one market mode.
type ModeOutcome struct {
	Mode       domain.MarketMode
	Result     *simulation.Result
	Outcome    *analysis.Outcome
	Summary    analysis.MarketSummary
	Invariants *verification.InvariantReport
}

// Comparison holds the per-mode outcomes and a side-by-side metric table.
type Comparison struct {
	Seed  uint64
	Modes []ModeOutcome
	Rows  []ComparisonRow
}

// ComparisonRow compares one metric between the isolated and synthetic runs.
type ComparisonRow struct {
	Metric    string
	Isolated  float64
	Synthetic float64
	Delta     float64 // synthetic - isolated
}

// Mode returns the outcome of mode, or nil if it was not run.
func (c *Comparison) Mode(mode domain.MarketMode) *ModeOutcome {
	for i := range c.Modes {
		if c.Modes[i].Mode == mode {
			return &c.Modes[i]
		}
	}
	return nil
}

// Passed reports whether every mode passed its invariant checks.
func (c *Comparison) Passed() bool {
	for _, m := range c.Modes {
		if m.Invariants != nil && !m.Invariants.Passed() {
			return false
		}
	}
	return true
}

// Run executes cfg once per mode. The mode in cfg is ignored.
// Phases:
//  1. Simulate
//  2. Analyze outcomes and price path
//  3. Verify invariants
//  4. Compare isolated against synthetic
func (o *Orchestrator) Run(ctx context.Context, cfg config.Run) (*Comparison, error) {
	cmp := &Comparison{Seed: cfg.Seed}

	for _, mode := range o.modes {
		runCfg := cfg.WithMode(mode)

		// Phase 1: Simulation
		o.log.WithField("mode", mode).Info("Phase 1: Running simulation")
		res, err := o.runner.Run(ctx, runCfg)
		if err != nil {
			return nil, fmt.Errorf("simulate %s: %w", mode, err)
		}

		// Phase 2: Analysis
		out := ModeOutcome{
			Mode:    mode,
			Result:  res,
			Outcome: analysis.Analyze(res.FinalPrice(), res.Agents),
			Summary: analysis.SummarizeMarket(runCfg.Market.InitialPrice, res.Prices, res.Transactions()),
		}
		if o.metrics != nil {
			for _, c := range out.Outcome.Classes {
				o.metrics.RecordAverageProfit(mode, c.Class, c.AverageProfit)
			}
		}

		// Phase 3: Invariants
		out.Invariants = o.invariant.Verify(res)
		entry := o.log.WithFields(logrus.Fields{
			"mode":        mode,
			"run_id":      res.RunID,
			"final_price": res.FinalPrice(),
			"trades":      res.Stats.Executed(),
		})
		if failed := out.Invariants.Failed(); len(failed) > 0 {
			entry.WithField("failed_checks", len(failed)).Warn("Invariant checks failed")
		} else {
			entry.Info("Mode completed")
		}

		cmp.Modes = append(cmp.Modes, out)
	}

	// Phase 4: Comparison
	iso, syn := cmp.Mode(domain.MarketIsolated), cmp.Mode(domain.MarketSynthetic)
	if iso != nil && syn != nil {
		cmp.Rows = compare(iso, syn)
	}

	return cmp, nil
}

func compare(iso, syn *ModeOutcome) []ComparisonRow {
	metric := func(name string, f func(*ModeOutcome) float64) ComparisonRow {
		a, b := f(iso), f(syn)
		return ComparisonRow{Metric: name, Isolated: a, Synthetic: b, Delta: b - a}
	}
	classAvg := func(c domain.AgentClass) func(*ModeOutcome) float64 {
		return func(m *ModeOutcome) float64 { return m.Outcome.Class(c).AverageProfit }
	}
	classWin := func(c domain.AgentClass) func(*ModeOutcome) float64 {
		return func(m *ModeOutcome) float64 { return m.Outcome.Class(c).WinShare }
	}

	return []ComparisonRow{
		metric("Final price", func(m *ModeOutcome) float64 { return m.Summary.FinalPrice }),
		metric("Peak price", func(m *ModeOutcome) float64 { return m.Summary.PeakPrice }),
		metric("Max drawdown", func(m *ModeOutcome) float64 { return m.Summary.MaxDrawdown }),
		metric("Executed trades", func(m *ModeOutcome) float64 { return float64(m.Summary.Trades) }),
		metric("Rejected trades", func(m *ModeOutcome) float64 { return float64(m.Result.Stats.Rejected()) }),
		metric("Insider avg profit", classAvg(domain.ClassInsider)),
		metric("Outsider avg profit", classAvg(domain.ClassOutsider)),
		metric("Insider win share", classWin(domain.ClassInsider)),
		metric("Outsider win share", classWin(domain.ClassOutsider)),
		metric("Profit gap", func(m *ModeOutcome) float64 { return m.Outcome.ProfitGap() }),
	}
}
