package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/logger"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/pipeline"
	"token-launch-sim/internal/reporting"
)

const modeBoth = "both"

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML config file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file with SIM_* overrides (optional)")
	market := flag.String("market", "", "Market mode: isolated, synthetic or both")
	seed := flag.Uint64("seed", 0, "Random seed")
	insiders := flag.Int("insiders", 0, "Number of insider agents")
	outsiders := flag.Int("outsiders", 0, "Number of outsider agents")
	duration := flag.Int("duration", 0, "Simulation duration in ticks")
	entryDelta := flag.Int("insider-entry-delta", 0, "Ticks after launch at which insiders enter")
	publicEntry := flag.Int("public-entry", 0, "Tick at which outsiders enter")
	outputDir := flag.String("output-dir", "", "Output directory for generated files")
	noChart := flag.Bool("no-chart", false, "Skip the PNG price chart")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
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

	both := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "market":
			if *market == modeBoth {
				both = true
				return
			}
			mode, perr := domain.ParseMarketMode(*market)
			if perr != nil {
				fatal("%v", perr)
			}
			cfg.Run.Market.Mode = mode
		case "seed":
			cfg.Run.Seed = *seed
		case "insiders":
			cfg.Run.Insiders.Count = *insiders
		case "outsiders":
			cfg.Run.Outsiders.Count = *outsiders
		case "duration":
			cfg.Run.Duration = *duration
		case "insider-entry-delta":
			cfg.Run.Insiders.EntryDelta = *entryDelta
		case "public-entry":
			cfg.Run.PublicEntry = *publicEntry
		case "output-dir":
			cfg.Output.Dir = *outputDir
		case "no-chart":
			cfg.Output.Chart = !*noChart
		case "log-level":
			cfg.Logging.Level = *logLevel
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

	p := pipeline.New(pipeline.Options{
		OutputDir:    cfg.Output.Dir,
		ConfigPath:   *configPath,
		Chart:        cfg.Output.Chart,
		WriteMetrics: cfg.Output.Metrics,
		Metrics:      observability.NewMetrics(""),
		Logger:       log,
	})

	var art *pipeline.Artifacts
	if both {
		art, err = p.RunComparison(ctx, cfg.Run)
	} else {
		art, err = p.Run(ctx, cfg.Run)
	}
	if err != nil {
		fatal("%v", err)
	}

	for _, r := range art.Reports {
		fmt.Println(reporting.RenderConsole(r))
	}
	if art.Comparison != nil && !art.Comparison.Passed() {
		log.Warn("Invariant checks failed")
	}

	fmt.Println("Artifacts written:")
	for _, path := range art.Files {
		fmt.Printf("  - %s\n", path)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
