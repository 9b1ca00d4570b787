package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"token-launch-sim/internal/agent"
	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/idhash"
	"token-launch-sim/internal/logger"
	"token-launch-sim/internal/market"
	"token-launch-sim/internal/observability"
	"token-launch-sim/internal/randsrc"
	"token-launch-sim/internal/storage"
)

// Runner executes simulation runs.
type Runner struct {
	txStore    storage.TransactionStore
	priceStore storage.PriceSeriesStore
	metrics    *observability.Metrics
	log        *logrus.Entry
	newSource  func(seed uint64) randsrc.Source
}

// RunnerOptions contains configuration for creating a Runner.
// All fields are optional.
type RunnerOptions struct {
	TransactionStore storage.TransactionStore
	PriceStore       storage.PriceSeriesStore
	Metrics          *observability.Metrics
	Logger           logrus.FieldLogger

	// NewSource builds the random source of a run. Defaults to randsrc.New.
	NewSource func(seed uint64) randsrc.Source
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	newSource := opts.NewSource
	if newSource == nil {
		newSource = func(seed uint64) randsrc.Source { return randsrc.New(seed) }
	}
	return &Runner{
		txStore:    opts.TransactionStore,
		priceStore: opts.PriceStore,
		metrics:    opts.Metrics,
		log:        logger.WithComponent(opts.Logger, "simulation"),
		newSource:  newSource,
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID  string
	Config config.Run
	Market *market.Market
	Agents []*agent.Agent // creation order: insiders, then outsiders
	Prices []domain.PricePoint
	Stats  Stats
}

// FinalPrice returns the market price after the last tick.
func (r *Result) FinalPrice() float64 {
	return r.Market.Price()
}

// Transactions returns the run's transaction log.
func (r *Result) Transactions() []domain.Transaction {
	return r.Market.Log()
}

// Stats counts what happened during a run.
type Stats struct {
	Ticks      int
	Decisions  int
	Attempts   int // non-hold decisions sent to the market
	Buys       int
	Sells      int
	Rejections map[domain.RejectReason]int
}

// Executed returns the number of executed trades.
func (s Stats) Executed() int {
	return s.Buys + s.Sells
}

// Rejected returns the number of rejected trades.
func (s Stats) Rejected() int {
	n := 0
	for _, c := range s.Rejections {
		n += c
	}
	return n
}

func (s *Stats) record(res domain.TradeResult) {
	s.Attempts++
	if !res.Executed() {
		s.Rejections[res.Reason]++
		return
	}
	switch res.Action {
	case domain.ActionBuy:
		s.Buys++
	case domain.ActionSell:
		s.Sells++
	}
}

// Run executes a simulation.
// Steps:
//  1. Validate config
//  2. Build market and agent population
//  3. For each tick: advance time, snapshot, shuffle, decide, execute, record
//  4. Persist transaction log and price series
func (r *Runner) Run(ctx context.Context, cfg config.Run) (*Result, error) {
	// 1. Validate config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	mode := cfg.Market.Mode

	// 2. Build market and agents
	runID := idhash.ComputeRunID(cfg.Seed, cfg.Fingerprint())
	m, err := market.New(cfg.Market.InitialPrice, mode,
		market.WithImpact(market.LinearImpact(cfg.Market.ImpactCoefficient)),
		market.WithRunID(runID),
	)
	if err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}
	agents, err := NewPopulation(cfg)
	if err != nil {
		return nil, err
	}

	log := r.log.WithFields(logrus.Fields{"run_id": runID, "market": mode})
	log.WithFields(logrus.Fields{
		"insiders":  cfg.Insiders.Count,
		"outsiders": cfg.Outsiders.Count,
		"duration":  cfg.Duration,
		"seed":      cfg.Seed,
	}).Info("simulation started")

	rng := r.newSource(cfg.Seed)
	order := make([]*agent.Agent, len(agents))
	copy(order, agents)

	stats := Stats{Rejections: make(map[domain.RejectReason]int)}
	prices := make([]domain.PricePoint, 0, cfg.Duration)

	// 3. Tick loop
	for i := 0; i < cfg.Duration; i++ {
		if err := ctx.Err(); err != nil {
			r.recordRun(mode, "cancelled", start)
			return nil, fmt.Errorf("simulation interrupted at tick %d: %w", m.Time(), err)
		}

		m.AdvanceTime()
		snap := domain.Snapshot{
			Time:            m.Time(),
			Price:           m.Price(),
			PublicEntryTime: cfg.PublicEntry,
		}

		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		active, trades := 0, 0
		for _, a := range order {
			if !a.Active(snap.Time) {
				continue
			}
			active++

			d := a.Decide(rng, snap)
			stats.Decisions++
			if r.metrics != nil {
				r.metrics.RecordDecision(mode, a.Class, d.Action)
			}
			if !d.IsTrade() {
				continue
			}

			res := a.ExecuteTrade(m, d.Action, d.Quantity)
			stats.record(res)
			if r.metrics != nil {
				r.metrics.RecordTrade(mode, a.Class, res)
			}
			if res.Executed() {
				trades++
			} else {
				log.WithFields(logrus.Fields{
					"tick":     snap.Time,
					"agent":    a.ID,
					"action":   d.Action,
					"quantity": d.Quantity,
					"reason":   res.Reason,
				}).Trace("trade rejected")
			}
		}

		point := domain.PricePoint{
			Tick:         snap.Time,
			Open:         snap.Price,
			Close:        m.Price(),
			ActiveAgents: active,
			Trades:       trades,
		}
		prices = append(prices, point)
		stats.Ticks++

		if r.metrics != nil {
			r.metrics.RecordTick(mode, point.Close, active, trades)
		}
		log.WithFields(logrus.Fields{
			"tick":   point.Tick,
			"price":  point.Close,
			"active": active,
			"trades": trades,
		}).Debug("tick")
	}

	// 4. Persist
	if err := r.persist(ctx, runID, m.Log(), prices); err != nil {
		r.recordRun(mode, "failed", start)
		return nil, err
	}

	r.recordRun(mode, "success", start)
	log.WithFields(logrus.Fields{
		"final_price": m.Price(),
		"executed":    stats.Executed(),
		"rejected":    stats.Rejected(),
	}).Info("simulation finished")

	return &Result{
		RunID:  runID,
		Config: cfg,
		Market: m,
		Agents: agents,
		Prices: prices,
		Stats:  stats,
	}, nil
}

func (r *Runner) persist(ctx context.Context, runID string, txs []domain.Transaction, prices []domain.PricePoint) error {
	if r.txStore != nil {
		if err := r.txStore.InsertBulk(ctx, runID, txs); err != nil {
			return fmt.Errorf("persist transactions: %w", err)
		}
	}
	if r.priceStore != nil {
		if err := r.priceStore.InsertBulk(ctx, runID, prices); err != nil {
			return fmt.Errorf("persist price series: %w", err)
		}
	}
	return nil
}

func (r *Runner) recordRun(mode domain.MarketMode, status string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordRun(mode, status, time.Since(start).Seconds())
	}
}
