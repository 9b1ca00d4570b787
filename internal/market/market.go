// Package market holds the shared price state that every agent trades against.
package market

import (
	"errors"
	"fmt"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/idhash"
)

// Market errors
var (
	ErrNegativePrice = errors.New("initial price must be non-negative")
	ErrUnknownMode   = errors.New("unknown market mode")
	ErrNilImpact     = errors.New("impact function is nil")
)

// Market is a single-asset market with a pluggable price-impact law.
// It is not safe for concurrent use: trades must be applied one at a time
// so that each agent observes the impact of the previous one.
type Market struct {
	price  float64
	time   int
	mode   domain.MarketMode
	impact ImpactFunc
	runID  string
	log    []domain.Transaction
}

// Option configures a Market.
type Option func(*Market)

// WithImpact replaces the price-impact law.
func WithImpact(fn ImpactFunc) Option {
	return func(m *Market) {
		m.impact = fn
	}
}

// WithRunID scopes transaction ids to a run.
func WithRunID(runID string) Option {
	return func(m *Market) {
		m.runID = runID
	}
}

// New creates a market at tick 0.
func New(initialPrice float64, mode domain.MarketMode, opts ...Option) (*Market, error) {
	if initialPrice < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativePrice, initialPrice)
	}
	if mode != domain.MarketIsolated && mode != domain.MarketSynthetic {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	m := &Market{
		price:  initialPrice,
		mode:   mode,
		impact: LinearImpact(DefaultImpactCoefficient),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.impact == nil {
		return nil, ErrNilImpact
	}

	return m, nil
}

// Price returns the current price.
func (m *Market) Price() float64 { return m.price }

// Time returns the current tick.
func (m *Market) Time() int { return m.time }

// Mode returns the market mode.
func (m *Market) Mode() domain.MarketMode { return m.mode }

// RunID returns the run the market belongs to.
func (m *Market) RunID() string { return m.runID }

// PriceImpact returns the price delta a trade of quantity would cause.
func (m *Market) PriceImpact(quantity float64) float64 {
	return m.impact(quantity)
}

// UpdatePrice applies the impact of an executed trade.
// In an isolated market sells never move the price.
// The price is clamped to 0 after any update.
func (m *Market) UpdatePrice(quantity float64, action domain.Action) {
	switch action {
	case domain.ActionBuy:
		m.price += m.PriceImpact(quantity)
	case domain.ActionSell:
		if m.mode == domain.MarketIsolated {
			return
		}
		m.price -= m.PriceImpact(quantity)
	default:
		return
	}

	if m.price < 0 {
		m.price = 0
	}
}

// LogTransaction appends an executed trade to the log and returns the entry.
// No validation is performed.
func (m *Market) LogTransaction(
	agentID string,
	class domain.AgentClass,
	action domain.Action,
	quantity, price, profit float64,
) domain.Transaction {
	seq := int64(len(m.log) + 1)
	tx := domain.Transaction{
		Seq:        seq,
		TxID:       idhash.ComputeTxID(m.runID, seq, m.time, agentID, string(action)),
		Time:       m.time,
		AgentID:    agentID,
		AgentClass: class,
		Action:     action,
		Quantity:   quantity,
		Price:      price,
		Profit:     profit,
	}
	m.log = append(m.log, tx)
	return tx
}

// Log returns a copy of the transaction log in execution order.
func (m *Market) Log() []domain.Transaction {
	out := make([]domain.Transaction, len(m.log))
	copy(out, m.log)
	return out
}

// TradeCount returns the number of logged transactions.
func (m *Market) TradeCount() int {
	return len(m.log)
}

// AdvanceTime moves the clock forward by one tick.
func (m *Market) AdvanceTime() {
	m.time++
}
