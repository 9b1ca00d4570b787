// Package pipeline runs simulations end to end and writes every artifact
// into an output directory.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"token-launch-sim/internal/analysis"
	"token-launch-sim/internal/config"
	"token-launch-sim/internal/logger"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/orchestrator"
	"token-launch-sim/internal/reporting"
	"token-launch-sim/internal/simulation"
	"token-launch-sim/internal/storage"
	"token-launch-sim/internal/storage/memory"
)

// Artifact file names.
const (
	ReportFile       = "report.md"
	TransactionsFile = "transactions.csv"
	PricesFile       = "prices.csv"
	AgentsFile       = "agents.csv"
	ChartFile        = "price_chart.png"
	ComparisonFile   = "comparison.md"
	ManifestFile     = "manifest.yaml"
	MetricsFile      = "metrics.prom"
)

// Pipeline orchestrates simulation + report generation.
type Pipeline struct {
	txStore      storage.TransactionStore
	priceStore   storage.PriceSeriesStore
	metrics      *observability.Metrics
	logger       logrus.FieldLogger
	log          *logrus.Entry
	outputDir    string
	configPath   string
	chart        bool
	writeMetrics bool
	clock        func() time.Time
}

// Options for creating a Pipeline.
type Options struct {
	OutputDir    string
	ConfigPath   string // recorded in replay commands
	Chart        bool   // write the PNG price chart
	WriteMetrics bool   // write the Prometheus textfile
	Metrics      *observability.Metrics
	Logger       logrus.FieldLogger
}

// New creates a new pipeline backed by in-memory stores.
func New(opts Options) *Pipeline {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("")
	}
	return &Pipeline{
		txStore:      memory.NewTransactionStore(),
		priceStore:   memory.NewPriceSeriesStore(),
		metrics:      metrics,
		logger:       opts.Logger,
		log:          logger.WithComponent(opts.Logger, "pipeline"),
		outputDir:    opts.OutputDir,
		configPath:   opts.ConfigPath,
		chart:        opts.Chart,
		writeMetrics: opts.WriteMetrics,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Artifacts lists what a pipeline run produced.
type Artifacts struct {
	Files      []string
	Reports    []*reporting.Report
	Comparison *orchestrator.Comparison // nil for single-mode runs
}

// Run executes one simulation in cfg's market mode and writes:
// - report.md
// - transactions.csv, prices.csv, agents.csv
// - price_chart.png (if enabled)
// - manifest.yaml
// - metrics.prom (if enabled)
func (p *Pipeline) Run(ctx context.Context, cfg config.Run) (*Artifacts, error) {
	// 1. Ensure output directory exists
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, err
	}

	// 2. Simulate
	res, err := simulation.NewRunner(simulation.RunnerOptions{
		TransactionStore: p.txStore,
		PriceStore:       p.priceStore,
		Metrics:          p.metrics,
		Logger:           p.logger,
	}).Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 3. Analyze
	outcome := analysis.Analyze(res.FinalPrice(), res.Agents)
	for _, c := range outcome.Classes {
		p.metrics.RecordAverageProfit(cfg.Market.Mode, c.Class, c.AverageProfit)
	}

	// 4. Report
	art := &Artifacts{}
	report, err := p.writeReport(ctx, art, "", res, outcome)
	if err != nil {
		return nil, err
	}

	// 5. Manifest and metrics
	if err := p.finish(art, newManifest(p.clock(), p.configPath, report)); err != nil {
		return nil, err
	}
	return art, nil
}

// RunComparison executes cfg against every market mode and writes the
// per-mode artifacts (prefixed by mode) plus comparison.md.
func (p *Pipeline) RunComparison(ctx context.Context, cfg config.Run) (*Artifacts, error) {
	// 1. Ensure output directory exists
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, err
	}

	// 2. Simulate, analyze and verify each mode
	cmp, err := orchestrator.New(orchestrator.Options{
		TransactionStore: p.txStore,
		PriceStore:       p.priceStore,
		Metrics:          p.metrics,
		Logger:           p.logger,
	}).Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 3. Per-mode reports
	art := &Artifacts{Comparison: cmp}
	reports := make([]*reporting.Report, 0, len(cmp.Modes))
	for _, m := range cmp.Modes {
		report, err := p.writeReport(ctx, art, string(m.Mode)+"_", m.Result, m.Outcome)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	// 4. Comparison
	if err := p.write(art, ComparisonFile, []byte(reporting.RenderComparisonMarkdown(cmp, p.clock()))); err != nil {
		return nil, err
	}
	if !cmp.Passed() {
		p.log.Warn("Invariant checks failed, see " + ComparisonFile)
	}

	// 5. Manifest and metrics
	if err := p.finish(art, newManifest(p.clock(), p.configPath, reports...)); err != nil {
		return nil, err
	}
	return art, nil
}

func (p *Pipeline) writeReport(ctx context.Context, art *Artifacts, prefix string, res *simulation.Result, outcome *analysis.Outcome) (*reporting.Report, error) {
	report, err := reporting.NewGenerator(p.txStore, p.priceStore).WithClock(p.clock).Generate(ctx, res, outcome)
	if err != nil {
		return nil, err
	}
	art.Reports = append(art.Reports, report)

	files := []struct {
		name string
		data string
	}{
		{ReportFile, reporting.RenderMarkdown(report)},
		{TransactionsFile, reporting.RenderTransactionsCSV(report.Transactions)},
		{PricesFile, reporting.RenderPricesCSV(report.Prices)},
		{AgentsFile, reporting.RenderAgentsCSV(report.Agents)},
	}
	for _, f := range files {
		if err := p.write(art, prefix+f.name, []byte(f.data)); err != nil {
			return nil, err
		}
	}

	if p.chart {
		var buf bytes.Buffer
		if err := reporting.RenderChart(&buf, report); err != nil {
			p.log.WithError(err).WithField("run_id", report.RunID).Warn("Skipping price chart")
		} else if err := p.write(art, prefix+ChartFile, buf.Bytes()); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (p *Pipeline) finish(art *Artifacts, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := p.write(art, ManifestFile, data); err != nil {
		return err
	}

	if p.writeMetrics {
		path := filepath.Join(p.outputDir, MetricsFile)
		if err := p.metrics.WriteTextfile(path); err != nil {
			return err
		}
		art.Files = append(art.Files, path)
	}
	return nil
}

func (p *Pipeline) write(art *Artifacts, name string, data []byte) error {
	path := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	art.Files = append(art.Files, path)
	p.log.WithField("path", path).Debug("Artifact written")
	return nil
}
