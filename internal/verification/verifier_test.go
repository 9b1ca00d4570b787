package verification

import (
	"context"
	"errors"
	"testing"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage/memory"
)

func testTransaction() domain.Transaction {
	return domain.Transaction{
		Seq:        3,
		TxID:       "tx3",
		Time:       21,
		AgentID:    "O-4",
		AgentClass: domain.ClassOutsider,
		Action:     domain.ActionSell,
		Quantity:   1234.5,
		Price:      0.0123,
		Profit:     1.5,
	}
}

func TestCompareTransactions_ExactMatch(t *testing.T) {
	tx := testTransaction()

	divergences := CompareTransactions(tx, tx)

	if len(divergences) != 0 {
		t.Errorf("Expected 0 divergences, got %d: %v", len(divergences), divergences)
	}
}

func TestCompareTransactions_WithinTolerance(t *testing.T) {
	stored := testTransaction()
	replayed := stored
	replayed.Quantity += stored.Quantity * 1e-12

	if d := CompareTransactions(stored, replayed); len(d) != 0 {
		t.Errorf("Expected 0 divergences within tolerance, got %v", d)
	}
}

func TestCompareTransactions_Divergences(t *testing.T) {
	stored := testTransaction()
	replayed := stored
	replayed.AgentID = "O-5"
	replayed.Price = 0.0124
	replayed.Action = domain.ActionBuy

	divergences := CompareTransactions(stored, replayed)

	if len(divergences) != 3 {
		t.Fatalf("Expected 3 divergences, got %d: %v", len(divergences), divergences)
	}
	fields := map[string]bool{}
	for _, d := range divergences {
		fields[d.Field] = true
	}
	for _, f := range []string{"AgentID", "Price", "Action"} {
		if !fields[f] {
			t.Errorf("Expected divergence on %s", f)
		}
	}
}

func TestComparePricePoints(t *testing.T) {
	stored := domain.PricePoint{Tick: 5, Open: 1, Close: 2, ActiveAgents: 10, Trades: 3}
	replayed := stored
	if d := ComparePricePoints(stored, replayed); len(d) != 0 {
		t.Errorf("Expected no divergences, got %v", d)
	}

	replayed.Close = 2.5
	replayed.Trades = 4
	if d := ComparePricePoints(stored, replayed); len(d) != 2 {
		t.Errorf("Expected 2 divergences, got %v", d)
	}
}

func verifyRun() config.Run {
	cfg := config.DefaultRun()
	cfg.Market.Mode = domain.MarketSynthetic
	cfg.Insiders.Count = 2
	cfg.Outsiders.Count = 15
	cfg.Duration = 40
	cfg.PublicEntry = 8
	return cfg
}

func storedRun(t *testing.T, cfg config.Run) (*memory.TransactionStore, *memory.PriceSeriesStore, *simulation.Result) {
	t.Helper()
	txStore := memory.NewTransactionStore()
	priceStore := memory.NewPriceSeriesStore()

	res, err := simulation.NewRunner(simulation.RunnerOptions{
		TransactionStore: txStore,
		PriceStore:       priceStore,
	}).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return txStore, priceStore, res
}

func TestReplayVerifier_VerifyRun_Match(t *testing.T) {
	ctx := context.Background()
	cfg := verifyRun()
	txStore, priceStore, res := storedRun(t, cfg)

	v := NewReplayVerifier(ReplayVerifierOptions{TransactionStore: txStore, PriceStore: priceStore})
	report, err := v.VerifyRun(ctx, res.RunID, cfg)
	if err != nil {
		t.Fatalf("VerifyRun failed: %v", err)
	}

	if !report.Match() {
		t.Errorf("Expected match, got %d divergent transactions and %d price divergences",
			report.DivergentTransactions, len(report.PriceDivergences))
	}
	if report.TotalTransactions != len(res.Transactions()) {
		t.Errorf("Expected %d transactions, got %d", len(res.Transactions()), report.TotalTransactions)
	}
	if report.MatchedTransactions != report.TotalTransactions {
		t.Errorf("Expected all %d matched, got %d", report.TotalTransactions, report.MatchedTransactions)
	}
}

func TestReplayVerifier_VerifyRun_DetectsTamperedLog(t *testing.T) {
	ctx := context.Background()
	cfg := verifyRun()
	_, _, res := storedRun(t, cfg)

	// Store a tampered copy of the log.
	txs := res.Transactions()
	if len(txs) == 0 {
		t.Fatal("Expected transactions in run")
	}
	txs[0].Quantity *= 2
	tampered := memory.NewTransactionStore()
	if err := tampered.InsertBulk(ctx, res.RunID, txs); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	v := NewReplayVerifier(ReplayVerifierOptions{TransactionStore: tampered})
	report, err := v.VerifyRun(ctx, res.RunID, cfg)
	if err != nil {
		t.Fatalf("VerifyRun failed: %v", err)
	}

	if report.Match() {
		t.Fatal("Expected divergence on tampered log")
	}
	if report.DivergentTransactions != 1 {
		t.Errorf("Expected 1 divergent transaction, got %d", report.DivergentTransactions)
	}
	if report.Results[0].Divergences[0].Field != "Quantity" {
		t.Errorf("Expected Quantity divergence, got %v", report.Results[0].Divergences)
	}
}

func TestReplayVerifier_VerifyRun_Errors(t *testing.T) {
	ctx := context.Background()
	cfg := verifyRun()
	txStore, priceStore, res := storedRun(t, cfg)
	v := NewReplayVerifier(ReplayVerifierOptions{TransactionStore: txStore, PriceStore: priceStore})

	if _, err := v.VerifyRun(ctx, "unknown-run", cfg); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}

	other := cfg
	other.Seed++
	if _, err := v.VerifyRun(ctx, res.RunID, other); !errors.Is(err, ErrConfigMismatch) {
		t.Errorf("Expected ErrConfigMismatch, got %v", err)
	}
}

func TestReplayVerifier_VerifyTransaction(t *testing.T) {
	ctx := context.Background()
	cfg := verifyRun()
	txStore, _, res := storedRun(t, cfg)
	v := NewReplayVerifier(ReplayVerifierOptions{TransactionStore: txStore})

	txs := res.Transactions()
	last := txs[len(txs)-1]

	result, err := v.VerifyTransaction(ctx, res.RunID, last.TxID, cfg)
	if err != nil {
		t.Fatalf("VerifyTransaction failed: %v", err)
	}
	if !result.Match {
		t.Errorf("Expected match, got %v", result.Divergences)
	}
	if result.Seq != last.Seq {
		t.Errorf("Expected seq %d, got %d", last.Seq, result.Seq)
	}
	if result.Tick != last.Time {
		t.Errorf("Expected tick %d, got %d", last.Time, result.Tick)
	}
	for _, p := range res.Prices {
		if p.Tick == last.Time && p.Close != result.TickClose {
			t.Errorf("Expected tick close %g, got %g", p.Close, result.TickClose)
		}
	}

	if _, err := v.VerifyTransaction(ctx, res.RunID, "missing", cfg); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}
