// Package observability provides Prometheus metrics for simulation runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"token-launch-sim/internal/domain"
)

// Metrics holds all Prometheus metrics of a process. Each instance owns a
// private registry so that independent runs never share counters.
type Metrics struct {
	registry *prometheus.Registry

	// Simulation metrics
	RunsTotal     *prometheus.CounterVec
	TicksTotal    *prometheus.CounterVec
	Decisions     *prometheus.CounterVec
	TradesTotal   *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	TradedVolume  *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
	TickDecisions prometheus.Histogram

	// Market state
	Price        *prometheus.GaugeVec
	ActiveAgents *prometheus.GaugeVec

	// Outcome metrics
	AverageProfit *prometheus.GaugeVec

	// Verification metrics
	VerificationChecks *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_launch_sim"
	}

	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulation runs by market mode and status",
		}, []string{"market", "status"}),
		TicksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "ticks_total",
			Help:      "Total number of simulated ticks",
		}, []string{"market"}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "decisions_total",
			Help:      "Total number of agent decisions by class and action",
		}, []string{"market", "class", "action"}),
		TradesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trades_total",
			Help:      "Total number of executed trades by class and action",
		}, []string{"market", "class", "action"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "rejections_total",
			Help:      "Total number of rejected trades by reason",
		}, []string{"market", "reason"}),
		TradedVolume: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "traded_tokens_total",
			Help:      "Total number of tokens traded by action",
		}, []string{"market", "action"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a simulation run in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"market"}),
		TickDecisions: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "tick_trades",
			Help:      "Number of executed trades per tick",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),

		Price: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "price",
			Help:      "Current market price",
		}, []string{"market"}),
		ActiveAgents: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "active_agents",
			Help:      "Number of agents active in the last tick",
		}, []string{"market"}),

		AverageProfit: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outcome",
			Name:      "average_profit",
			Help:      "Average total profit per agent by class",
		}, []string{"market", "class"}),

		VerificationChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "checks_total",
			Help:      "Total number of verification checks by name and result",
		}, []string{"check", "result"}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTick records one finished tick.
func (m *Metrics) RecordTick(mode domain.MarketMode, price float64, active, trades int) {
	market := string(mode)
	m.TicksTotal.WithLabelValues(market).Inc()
	m.Price.WithLabelValues(market).Set(price)
	m.ActiveAgents.WithLabelValues(market).Set(float64(active))
	m.TickDecisions.Observe(float64(trades))
}

// RecordDecision records an agent decision.
func (m *Metrics) RecordDecision(mode domain.MarketMode, class domain.AgentClass, action domain.Action) {
	m.Decisions.WithLabelValues(string(mode), string(class), string(action)).Inc()
}

// RecordTrade records a trade execution attempt.
func (m *Metrics) RecordTrade(mode domain.MarketMode, class domain.AgentClass, res domain.TradeResult) {
	market := string(mode)
	if !res.Executed() {
		m.Rejections.WithLabelValues(market, string(res.Reason)).Inc()
		return
	}
	m.TradesTotal.WithLabelValues(market, string(class), string(res.Action)).Inc()
	m.TradedVolume.WithLabelValues(market, string(res.Action)).Add(res.Quantity)
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(mode domain.MarketMode, status string, durationSeconds float64) {
	m.RunsTotal.WithLabelValues(string(mode), status).Inc()
	m.RunDuration.WithLabelValues(string(mode)).Observe(durationSeconds)
}

// RecordAverageProfit records a class's average total profit.
func (m *Metrics) RecordAverageProfit(mode domain.MarketMode, class domain.AgentClass, avg float64) {
	m.AverageProfit.WithLabelValues(string(mode), string(class)).Set(avg)
}

// RecordCheck records a verification check result.
func (m *Metrics) RecordCheck(check string, passed bool) {
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.VerificationChecks.WithLabelValues(check, result).Inc()
}

// WriteTextfile writes all metrics in the Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
