// Package verification checks finished runs: invariant checks over a run's
// log and price series, and deterministic replay against stored results.
package verification

import (
	"context"
	"math"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
)

// FloatTolerance is the relative tolerance for float64 comparisons.
const FloatTolerance = 1e-9

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Field    string      // field name
	Expected interface{} // stored value
	Actual   interface{} // replayed value
}

// VerificationResult contains the result of verifying a single transaction.
type VerificationResult struct {
	TxID        string            // verified transaction ID
	Seq         int64             // position in the log
	Match       bool              // true if all fields match
	Divergences []FieldDivergence // list of divergent fields

	// Set by VerifyTransaction only.
	Tick      int     // tick the stored transaction executed in
	TickClose float64 // replayed price at the end of Tick
}

// TickDivergence is a price series mismatch at one tick.
type TickDivergence struct {
	Tick        int
	Divergences []FieldDivergence
}

// VerificationReport contains results for a whole run.
type VerificationReport struct {
	RunID                 string
	TotalTransactions     int                  // stored transactions verified
	MatchedTransactions   int                  // transactions that matched exactly
	DivergentTransactions int                  // transactions with divergences
	Results               []VerificationResult // individual results
	PriceDivergences      []TickDivergence
}

// Match reports whether the replay reproduced the stored run.
func (r *VerificationReport) Match() bool {
	return r.DivergentTransactions == 0 && len(r.PriceDivergences) == 0
}

// Verifier replays stored runs.
type Verifier interface {
	// VerifyTransaction verifies a single stored transaction by replaying its run.
	VerifyTransaction(ctx context.Context, runID, txID string, cfg config.Run) (*VerificationResult, error)

	// VerifyRun verifies every stored transaction and price point of a run.
	VerifyRun(ctx context.Context, runID string, cfg config.Run) (*VerificationReport, error)
}

// CompareTransactions compares two transactions and returns divergences.
// Uses FloatTolerance for float64 comparisons.
func CompareTransactions(stored, replayed domain.Transaction) []FieldDivergence {
	var divergences []FieldDivergence

	add := func(field string, expected, actual interface{}) {
		divergences = append(divergences, FieldDivergence{
			Field:    field,
			Expected: expected,
			Actual:   actual,
		})
	}

	if stored.Seq != replayed.Seq {
		add("Seq", stored.Seq, replayed.Seq)
	}
	if stored.TxID != replayed.TxID {
		add("TxID", stored.TxID, replayed.TxID)
	}
	if stored.Time != replayed.Time {
		add("Time", stored.Time, replayed.Time)
	}
	if stored.AgentID != replayed.AgentID {
		add("AgentID", stored.AgentID, replayed.AgentID)
	}
	if stored.AgentClass != replayed.AgentClass {
		add("AgentClass", stored.AgentClass, replayed.AgentClass)
	}
	if stored.Action != replayed.Action {
		add("Action", stored.Action, replayed.Action)
	}
	if !floatEquals(stored.Quantity, replayed.Quantity) {
		add("Quantity", stored.Quantity, replayed.Quantity)
	}
	if !floatEquals(stored.Price, replayed.Price) {
		add("Price", stored.Price, replayed.Price)
	}
	if !floatEquals(stored.Profit, replayed.Profit) {
		add("Profit", stored.Profit, replayed.Profit)
	}

	return divergences
}

// ComparePricePoints compares two price points and returns divergences.
func ComparePricePoints(stored, replayed domain.PricePoint) []FieldDivergence {
	var divergences []FieldDivergence

	if !floatEquals(stored.Open, replayed.Open) {
		divergences = append(divergences, FieldDivergence{Field: "Open", Expected: stored.Open, Actual: replayed.Open})
	}
	if !floatEquals(stored.Close, replayed.Close) {
		divergences = append(divergences, FieldDivergence{Field: "Close", Expected: stored.Close, Actual: replayed.Close})
	}
	if stored.ActiveAgents != replayed.ActiveAgents {
		divergences = append(divergences, FieldDivergence{Field: "ActiveAgents", Expected: stored.ActiveAgents, Actual: replayed.ActiveAgents})
	}
	if stored.Trades != replayed.Trades {
		divergences = append(divergences, FieldDivergence{Field: "Trades", Expected: stored.Trades, Actual: replayed.Trades})
	}

	return divergences
}

// floatEquals compares with a tolerance relative to the larger magnitude.
func floatEquals(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= FloatTolerance*scale
}
