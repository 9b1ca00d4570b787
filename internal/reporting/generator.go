package reporting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"token-launch-sim/internal/analysis"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage"
)

// ErrNilResult is returned when Generate is called without a result.
var ErrNilResult = errors.New("nil simulation result")

// Generator produces reports from simulation results.
// When stores are set, the transaction log and price series are read back
// from them and cross-checked against the in-memory result.
type Generator struct {
	txStore    storage.TransactionStore
	priceStore storage.PriceSeriesStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. Both stores may be nil.
func NewGenerator(txStore storage.TransactionStore, priceStore storage.PriceSeriesStore) *Generator {
	return &Generator{
		txStore:    txStore,
		priceStore: priceStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report of one run. outcome may be nil, in which case
// it is computed from the result.
func (g *Generator) Generate(ctx context.Context, res *simulation.Result, outcome *analysis.Outcome) (*Report, error) {
	if res == nil {
		return nil, ErrNilResult
	}
	if outcome == nil {
		outcome = analysis.Analyze(res.FinalPrice(), res.Agents)
	}
	cfg := res.Config

	// Load log and series, preferring the stores
	txs, prices, integrity, err := g.loadRunData(ctx, res)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:     g.now(),
		RunID:           res.RunID,
		Mode:            cfg.Market.Mode,
		Seed:            cfg.Seed,
		Parameters:      parameters(res),
		InsiderEntry:    simulation.LaunchTick + cfg.Insiders.EntryDelta,
		PublicEntry:     simulation.LaunchTick + cfg.PublicEntry,
		Summary:         analysis.SummarizeMarket(cfg.Market.InitialPrice, prices, txs),
		Stats:           runStats(res.Stats),
		Classes:         outcome.Classes,
		Agents:          outcome.Agents,
		ProfitGap:       outcome.ProfitGap(),
		Transactions:    txs,
		Prices:          prices,
		IntegrityErrors: integrity,
	}, nil
}

// loadRunData returns the transaction log and price series of the run,
// read from the stores when configured.
func (g *Generator) loadRunData(ctx context.Context, res *simulation.Result) ([]domain.Transaction, []domain.PricePoint, []string, error) {
	txs := res.Transactions()
	prices := res.Prices
	var integrity []string

	if g.txStore != nil {
		stored, err := g.txStore.GetByRun(ctx, res.RunID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load transactions: %w", err)
		}
		if len(stored) != len(txs) {
			integrity = append(integrity, fmt.Sprintf("transaction store holds %d entries, run logged %d", len(stored), len(txs)))
		}
		for i := range min(len(stored), len(txs)) {
			if stored[i].TxID != txs[i].TxID {
				integrity = append(integrity, fmt.Sprintf("seq %d: stored tx %s, logged %s", txs[i].Seq, stored[i].TxID, txs[i].TxID))
				break
			}
		}
		txs = stored
	}

	if g.priceStore != nil {
		stored, err := g.priceStore.GetByRun(ctx, res.RunID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load price series: %w", err)
		}
		if len(stored) != len(prices) {
			integrity = append(integrity, fmt.Sprintf("price store holds %d ticks, run recorded %d", len(stored), len(prices)))
		}
		prices = stored
	}

	return txs, prices, integrity, nil
}

func parameters(res *simulation.Result) []ParameterRow {
	cfg := res.Config
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	i := strconv.Itoa

	return []ParameterRow{
		{"Market", string(cfg.Market.Mode)},
		{"Seed", strconv.FormatUint(cfg.Seed, 10)},
		{"Duration (ticks)", i(cfg.Duration)},
		{"Initial price", f(cfg.Market.InitialPrice)},
		{"Impact coefficient", f(cfg.Market.ImpactCoefficient)},
		{"Insiders", i(cfg.Insiders.Count)},
		{"Insider capital", f(cfg.Insiders.Capital)},
		{"Insider rationality", f(cfg.Insiders.Rationality)},
		{"Insider entry delta", i(cfg.Insiders.EntryDelta)},
		{"Outsiders", i(cfg.Outsiders.Count)},
		{"Outsider capital", f(cfg.Outsiders.Capital)},
		{"Outsider rationality", f(cfg.Outsiders.Rationality)},
		{"Outsider FOMO factor", f(cfg.Outsiders.FOMOFactor)},
		{"Public entry", i(cfg.PublicEntry)},
	}
}

func runStats(s simulation.Stats) RunStats {
	out := RunStats{
		Ticks:     s.Ticks,
		Decisions: s.Decisions,
		Attempts:  s.Attempts,
		Buys:      s.Buys,
		Sells:     s.Sells,
		Rejected:  s.Rejected(),
	}
	// Fixed order for deterministic output
	for _, reason := range domain.RejectReasons {
		if n := s.Rejections[reason]; n > 0 {
			out.Rejections = append(out.Rejections, RejectionRow{Reason: reason, Count: n})
		}
	}
	return out
}
