package verification

import (
	"fmt"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/idhash"
	"token-launch-sim/internal/lookup"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/simulation"
)

// Invariant check names.
const (
	CheckLogOrdering        = "log_ordering"
	CheckTradeCounts        = "trade_counts"
	CheckPriceNonNegative   = "price_non_negative"
	CheckPricePath          = "price_path"
	CheckIsolatedSells      = "isolated_sells_static"
	CheckBalances           = "balances_non_negative"
	CheckAgentAddresses     = "agent_addresses"
	CheckLedgerReproducible = "ledger_reproducible"
)

// Check is the result of one invariant check.
type Check struct {
	Name   string
	Passed bool
	Detail string // first violation, empty when passed
}

// InvariantReport collects all invariant checks of a run.
type InvariantReport struct {
	RunID  string
	Checks []Check
}

// Passed reports whether every check passed.
func (r *InvariantReport) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the failed checks.
func (r *InvariantReport) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// InvariantVerifier checks the invariants of a finished run against its
// own transaction log and price series.
type InvariantVerifier struct {
	metrics *observability.Metrics
}

// NewInvariantVerifier creates a verifier. metrics may be nil.
func NewInvariantVerifier(metrics *observability.Metrics) *InvariantVerifier {
	return &InvariantVerifier{metrics: metrics}
}

// Verify runs every invariant check.
func (v *InvariantVerifier) Verify(res *simulation.Result) *InvariantReport {
	txs := res.Transactions()

	report := &InvariantReport{RunID: res.RunID}
	report.Checks = append(report.Checks,
		checkLogOrdering(txs),
		checkTradeCounts(res, txs),
		checkPriceNonNegative(res.Prices),
		checkPricePath(res, txs),
	)
	if res.Config.Market.Mode == domain.MarketIsolated {
		report.Checks = append(report.Checks, checkIsolatedSells(res, txs))
	}
	report.Checks = append(report.Checks,
		checkBalances(res),
		checkAgentAddresses(res),
		checkLedger(res, txs),
	)

	if v.metrics != nil {
		for _, c := range report.Checks {
			v.metrics.RecordCheck(c.Name, c.Passed)
		}
	}

	return report
}

func pass(name string) Check {
	return Check{Name: name, Passed: true}
}

func fail(name, format string, args ...any) Check {
	return Check{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// checkLogOrdering: seq is 1..n, time never decreases, tx ids are unique.
func checkLogOrdering(txs []domain.Transaction) Check {
	seen := make(map[string]struct{}, len(txs))
	for i, tx := range txs {
		if tx.Seq != int64(i+1) {
			return fail(CheckLogOrdering, "position %d has seq %d", i, tx.Seq)
		}
		if i > 0 && tx.Time < txs[i-1].Time {
			return fail(CheckLogOrdering, "seq %d at tick %d after tick %d", tx.Seq, tx.Time, txs[i-1].Time)
		}
		if _, dup := seen[tx.TxID]; dup {
			return fail(CheckLogOrdering, "duplicate tx id %s", tx.TxID)
		}
		seen[tx.TxID] = struct{}{}
	}
	return pass(CheckLogOrdering)
}

// checkTradeCounts: per-tick trade counts add up to the log, and the log
// length matches the executed trades the run counted.
func checkTradeCounts(res *simulation.Result, txs []domain.Transaction) Check {
	if n := res.Market.TradeCount(); n != res.Stats.Executed() {
		return fail(CheckTradeCounts, "market logged %d trades, run executed %d", n, res.Stats.Executed())
	}

	perTick := make(map[int]int)
	for _, tx := range txs {
		perTick[tx.Time]++
	}
	for _, p := range res.Prices {
		if perTick[p.Tick] != p.Trades {
			return fail(CheckTradeCounts, "tick %d records %d trades, log has %d", p.Tick, p.Trades, perTick[p.Tick])
		}
	}
	for _, tx := range txs {
		if _, err := lookup.PointAt(tx.Time, res.Prices); err != nil {
			return fail(CheckTradeCounts, "seq %d at unrecorded tick %d", tx.Seq, tx.Time)
		}
	}
	return pass(CheckTradeCounts)
}

func checkPriceNonNegative(series []domain.PricePoint) Check {
	for _, p := range series {
		if p.Open < 0 || p.Close < 0 {
			return fail(CheckPriceNonNegative, "tick %d open %g close %g", p.Tick, p.Open, p.Close)
		}
	}
	return pass(CheckPriceNonNegative)
}

// checkPricePath rebuilds the price path from the initial price and the log
// under the linear impact law and compares every observed price.
func checkPricePath(res *simulation.Result, txs []domain.Transaction) Check {
	k := res.Config.Market.ImpactCoefficient
	isolated := res.Config.Market.Mode == domain.MarketIsolated
	price := res.Config.Market.InitialPrice

	byTick := groupByTick(txs)
	for _, p := range res.Prices {
		if !floatEquals(price, p.Open) {
			return fail(CheckPricePath, "tick %d opens at %g, expected %g", p.Tick, p.Open, price)
		}
		for _, tx := range byTick[p.Tick] {
			if !floatEquals(price, tx.Price) {
				return fail(CheckPricePath, "seq %d executed at %g, expected %g", tx.Seq, tx.Price, price)
			}
			switch tx.Action {
			case domain.ActionBuy:
				price += tx.Quantity * k
			case domain.ActionSell:
				if !isolated {
					price -= tx.Quantity * k
				}
			}
			if price < 0 {
				price = 0
			}
		}
		if !floatEquals(price, p.Close) {
			return fail(CheckPricePath, "tick %d closes at %g, expected %g", p.Tick, p.Close, price)
		}
	}
	return pass(CheckPricePath)
}

// checkIsolatedSells: in an isolated market the price after a sell equals
// the price the sell executed at.
func checkIsolatedSells(res *simulation.Result, txs []domain.Transaction) Check {
	closes := make(map[int]float64, len(res.Prices))
	for _, p := range res.Prices {
		closes[p.Tick] = p.Close
	}

	for i, tx := range txs {
		if tx.Action != domain.ActionSell {
			continue
		}
		after, ok := closes[tx.Time]
		if i+1 < len(txs) && txs[i+1].Time == tx.Time {
			after, ok = txs[i+1].Price, true
		}
		if ok && after != tx.Price {
			return fail(CheckIsolatedSells, "seq %d moved price from %g to %g", tx.Seq, tx.Price, after)
		}
	}
	return pass(CheckIsolatedSells)
}

func checkBalances(res *simulation.Result) Check {
	for _, a := range res.Agents {
		if a.Capital < -FloatTolerance*max(1, a.InitialCapital) {
			return fail(CheckBalances, "%s capital %g", a.ID, a.Capital)
		}
		if a.Tokens < 0 {
			return fail(CheckBalances, "%s tokens %g", a.ID, a.Tokens)
		}
	}
	return pass(CheckBalances)
}

// checkAgentAddresses: every address is an on-curve key derived from the
// run seed and the agent id.
func checkAgentAddresses(res *simulation.Result) Check {
	for _, a := range res.Agents {
		if err := idhash.ValidateAddress(a.Address); err != nil {
			return fail(CheckAgentAddresses, "%s: %v", a.ID, err)
		}
		want, err := idhash.AgentAddress(res.Config.Seed, a.ID)
		if err != nil {
			return fail(CheckAgentAddresses, "%s: %v", a.ID, err)
		}
		if a.Address != want {
			return fail(CheckAgentAddresses, "%s address %s, seed derives %s", a.ID, a.Address, want)
		}
	}
	return pass(CheckAgentAddresses)
}

type ledger struct {
	capital   float64
	tokens    float64
	costBasis float64
	realized  float64
}

// checkLedger replays every agent's trades from the log and compares the
// resulting balances and cost basis with the agent's final state.
func checkLedger(res *simulation.Result, txs []domain.Transaction) Check {
	books := make(map[string]*ledger, len(res.Agents))
	for _, a := range res.Agents {
		books[a.ID] = &ledger{capital: a.InitialCapital}
	}

	for _, tx := range txs {
		l, ok := books[tx.AgentID]
		if !ok {
			return fail(CheckLedgerReproducible, "seq %d by unknown agent %s", tx.Seq, tx.AgentID)
		}
		switch tx.Action {
		case domain.ActionBuy:
			cost := tx.Quantity * tx.Price
			if cost > l.capital {
				return fail(CheckLedgerReproducible, "seq %d spends %g with %g capital", tx.Seq, cost, l.capital)
			}
			l.capital -= cost
			l.costBasis = (l.costBasis*l.tokens + cost) / (l.tokens + tx.Quantity)
			l.tokens += tx.Quantity
		case domain.ActionSell:
			if tx.Quantity > l.tokens {
				return fail(CheckLedgerReproducible, "seq %d sells %g of %g tokens", tx.Seq, tx.Quantity, l.tokens)
			}
			profit := (tx.Price - l.costBasis) * tx.Quantity
			if !floatEquals(profit, tx.Profit) {
				return fail(CheckLedgerReproducible, "seq %d profit %g, expected %g", tx.Seq, tx.Profit, profit)
			}
			l.capital += tx.Quantity * tx.Price
			l.realized += profit
			l.tokens -= tx.Quantity
			if l.tokens == 0 {
				l.costBasis = 0
			}
		default:
			if !tx.Action.Valid() {
				return fail(CheckLedgerReproducible, "seq %d has unknown action %q", tx.Seq, tx.Action)
			}
			return fail(CheckLedgerReproducible, "seq %d logs a %s", tx.Seq, tx.Action)
		}
	}

	for _, a := range res.Agents {
		l := books[a.ID]
		switch {
		case !floatEquals(l.capital, a.Capital):
			return fail(CheckLedgerReproducible, "%s capital %g, log gives %g", a.ID, a.Capital, l.capital)
		case !floatEquals(l.tokens, a.Tokens):
			return fail(CheckLedgerReproducible, "%s tokens %g, log gives %g", a.ID, a.Tokens, l.tokens)
		case !floatEquals(l.costBasis, a.CostBasis):
			return fail(CheckLedgerReproducible, "%s cost basis %g, log gives %g", a.ID, a.CostBasis, l.costBasis)
		case !floatEquals(l.realized, a.RealizedProfit):
			return fail(CheckLedgerReproducible, "%s realized %g, log gives %g", a.ID, a.RealizedProfit, l.realized)
		}
	}
	return pass(CheckLedgerReproducible)
}

func groupByTick(txs []domain.Transaction) map[int][]domain.Transaction {
	out := make(map[int][]domain.Transaction)
	for _, tx := range txs {
		out[tx.Time] = append(out[tx.Time], tx)
	}
	return out
}
