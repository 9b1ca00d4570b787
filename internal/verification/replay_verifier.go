package verification

import (
	"context"
	"errors"
	"fmt"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/lookup"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage"
)

var (
	// ErrTransactionNotFound is returned when a transaction ID doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrRunNotFound is returned when nothing is stored for a run.
	ErrRunNotFound = errors.New("run not found")

	// ErrConfigMismatch is returned when the config does not derive the run ID.
	ErrConfigMismatch = errors.New("config does not match run id")
)

// ReplayVerifier implements Verifier by re-running the simulation from its
// configuration and comparing against the stores.
type ReplayVerifier struct {
	txStore    storage.TransactionStore
	priceStore storage.PriceSeriesStore
}

// ReplayVerifierOptions contains configuration for creating a ReplayVerifier.
type ReplayVerifierOptions struct {
	TransactionStore storage.TransactionStore
	PriceStore       storage.PriceSeriesStore
}

// NewReplayVerifier creates a new ReplayVerifier.
func NewReplayVerifier(opts ReplayVerifierOptions) *ReplayVerifier {
	return &ReplayVerifier{
		txStore:    opts.TransactionStore,
		priceStore: opts.PriceStore,
	}
}

// VerifyTransaction verifies a single transaction by replaying its run.
func (v *ReplayVerifier) VerifyTransaction(ctx context.Context, runID, txID string, cfg config.Run) (*VerificationResult, error) {
	// 1. Load stored transaction
	stored, err := v.txStore.GetByTxID(ctx, runID, txID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	// 2. Replay simulation
	replayed, err := v.replay(ctx, runID, cfg)
	if err != nil {
		return nil, err
	}

	// 3. Compare results
	result := &VerificationResult{TxID: txID, Seq: stored.Seq, Tick: stored.Time}
	if px, err := lookup.PriceAt(stored.Time, replayed.Prices); err == nil {
		result.TickClose = px
	}

	log := replayed.Transactions()
	if stored.Seq < 1 || int(stored.Seq) > len(log) {
		result.Divergences = []FieldDivergence{
			{Field: "Seq", Expected: stored.Seq, Actual: len(log)},
		}
		return result, nil
	}
	result.Divergences = CompareTransactions(stored, log[stored.Seq-1])
	result.Match = len(result.Divergences) == 0

	return result, nil
}

// VerifyRun verifies every stored transaction and price point of a run.
func (v *ReplayVerifier) VerifyRun(ctx context.Context, runID string, cfg config.Run) (*VerificationReport, error) {
	// 1. Load stored run
	storedTxs, err := v.txStore.GetByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	var storedPrices []domain.PricePoint
	if v.priceStore != nil {
		storedPrices, err = v.priceStore.GetByRun(ctx, runID)
		if err != nil {
			return nil, err
		}
	}
	if len(storedTxs) == 0 && len(storedPrices) == 0 {
		return nil, ErrRunNotFound
	}

	// 2. Replay simulation
	replayed, err := v.replay(ctx, runID, cfg)
	if err != nil {
		return nil, err
	}
	log := replayed.Transactions()

	report := &VerificationReport{
		RunID:             runID,
		TotalTransactions: len(storedTxs),
		Results:           make([]VerificationResult, 0, len(storedTxs)),
	}

	// 3. Compare transactions by position
	for i, stored := range storedTxs {
		result := VerificationResult{TxID: stored.TxID, Seq: stored.Seq}
		if i < len(log) {
			result.Divergences = CompareTransactions(stored, log[i])
		} else {
			result.Divergences = []FieldDivergence{{Field: "Missing", Expected: stored.TxID, Actual: nil}}
		}
		result.Match = len(result.Divergences) == 0

		report.Results = append(report.Results, result)
		if result.Match {
			report.MatchedTransactions++
		} else {
			report.DivergentTransactions++
		}
	}

	// Replay produced extra transactions
	for _, extra := range log[min(len(storedTxs), len(log)):] {
		report.Results = append(report.Results, VerificationResult{
			TxID: extra.TxID,
			Seq:  extra.Seq,
			Divergences: []FieldDivergence{
				{Field: "Unexpected", Expected: nil, Actual: extra.TxID},
			},
		})
		report.DivergentTransactions++
	}

	// 4. Compare price series
	if v.priceStore != nil {
		report.PriceDivergences = comparePriceSeries(storedPrices, replayed.Prices)
	}

	return report, nil
}

// replay re-executes the run without persisting anything.
func (v *ReplayVerifier) replay(ctx context.Context, runID string, cfg config.Run) (*simulation.Result, error) {
	replayed, err := simulation.NewRunner(simulation.RunnerOptions{}).Run(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("replay run %s: %w", runID, err)
	}
	if replayed.RunID != runID {
		return nil, fmt.Errorf("%w: want %s, config derives %s", ErrConfigMismatch, runID, replayed.RunID)
	}
	return replayed, nil
}

func comparePriceSeries(stored, replayed []domain.PricePoint) []TickDivergence {
	var out []TickDivergence

	n := max(len(stored), len(replayed))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(stored):
			out = append(out, TickDivergence{
				Tick:        replayed[i].Tick,
				Divergences: []FieldDivergence{{Field: "Unexpected", Actual: replayed[i].Tick}},
			})
		case i >= len(replayed):
			out = append(out, TickDivergence{
				Tick:        stored[i].Tick,
				Divergences: []FieldDivergence{{Field: "Missing", Expected: stored[i].Tick}},
			})
		default:
			if d := ComparePricePoints(stored[i], replayed[i]); len(d) > 0 {
				out = append(out, TickDivergence{Tick: stored[i].Tick, Divergences: d})
			}
		}
	}

	return out
}

var _ Verifier = (*ReplayVerifier)(nil)
