package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/logger"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/reporting"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage/memory"
	"token-launch-sim/internal/verification"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML config file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file with SIM_* overrides (optional)")
	market := flag.String("market", "", "Market mode: isolated or synthetic")
	seed := flag.Uint64("seed", 0, "Random seed")
	txID := flag.String("tx-id", "", "Verify a single transaction instead of the whole run")
	outputDir := flag.String("output-dir", "", "Write verification.md into this directory")
	flag.Parse()

	// Load configuration: defaults < file < env < flags
	if err := config.LoadDotEnv(*envFile); err != nil {
		fatal("load env file: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fatal("apply env: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "market":
			mode, perr := domain.ParseMarketMode(*market)
			if perr != nil {
				fatal("%v", perr)
			}
			cfg.Run.Market.Mode = mode
		case "seed":
			cfg.Run.Seed = *seed
		case "output-dir":
			cfg.Output.Dir = *outputDir
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	log := logger.New(cfg.Logging.LoggerOptions())

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warnf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// 1. Run and store
	metrics := observability.NewMetrics("")
	txStore := memory.NewTransactionStore()
	priceStore := memory.NewPriceSeriesStore()
	res, err := simulation.NewRunner(simulation.RunnerOptions{
		TransactionStore: txStore,
		PriceStore:       priceStore,
		Metrics:          metrics,
		Logger:           log,
	}).Run(ctx, cfg.Run)
	if err != nil {
		fatal("run simulation: %v", err)
	}

	verifier := verification.NewReplayVerifier(verification.ReplayVerifierOptions{
		TransactionStore: txStore,
		PriceStore:       priceStore,
	})

	// Single transaction mode
	if *txID != "" {
		result, err := verifier.VerifyTransaction(ctx, res.RunID, *txID, cfg.Run)
		if err != nil {
			fatal("verify transaction: %v", err)
		}
		if !result.Match {
			fmt.Printf("Transaction %s (seq %d) DIVERGES:\n", result.TxID, result.Seq)
			for _, d := range result.Divergences {
				fmt.Printf("  %s: expected %v, got %v\n", d.Field, d.Expected, d.Actual)
			}
			os.Exit(1)
		}
		fmt.Printf("Transaction %s (seq %d) matches; tick %d closed at %g\n",
			result.TxID, result.Seq, result.Tick, result.TickClose)
		return
	}

	// 2. Invariants
	inv := verification.NewInvariantVerifier(metrics).Verify(res)

	// 3. Deterministic replay
	replay, err := verifier.VerifyRun(ctx, res.RunID, cfg.Run)
	if err != nil {
		fatal("verify run: %v", err)
	}

	md := reporting.RenderVerificationMarkdown(inv, replay)
	fmt.Print(md)

	if *outputDir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			fatal("create output dir: %v", err)
		}
		path := filepath.Join(cfg.Output.Dir, "verification.md")
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			fatal("write %s: %v", path, err)
		}
		if err := metrics.WriteTextfile(filepath.Join(cfg.Output.Dir, "verification.prom")); err != nil {
			fatal("%v", err)
		}
	}

	if !inv.Passed() || !replay.Match() {
		log.WithField("run_id", res.RunID).Error("Verification failed")
		os.Exit(1)
	}
	log.WithField("run_id", res.RunID).Info("Verification passed")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
