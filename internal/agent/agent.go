// Package agent implements market participants: the shared account record,
// trade execution against a market, and per-class decision policies.
package agent

import (
	"token-launch-sim/internal/domain"
)

// Market is the part of the market an agent trades against.
type Market interface {
	Price() float64
	UpdatePrice(quantity float64, action domain.Action)
	LogTransaction(agentID string, class domain.AgentClass, action domain.Action, quantity, price, profit float64) domain.Transaction
}

// Agent is a single market participant. The Class tag selects its
// decision policy; FOMOFactor is only meaningful for outsiders.
type Agent struct {
	ID      string
	Address string
	Class   domain.AgentClass

	InitialCapital float64
	Capital        float64
	Rationality    float64
	Tokens         float64
	CostBasis      float64 // volume-weighted average buy price
	RealizedProfit float64

	EntryTime  int
	FOMOFactor float64
}

// InsiderParams configures a new insider.
type InsiderParams struct {
	Capital     float64
	Rationality float64
	EntryTime   int
}

// OutsiderParams configures a new outsider.
type OutsiderParams struct {
	Capital     float64
	Rationality float64
	EntryTime   int
	FOMOFactor  float64
}

// NewInsider creates an insider with no position.
func NewInsider(id string, p InsiderParams) *Agent {
	return &Agent{
		ID:             id,
		Class:          domain.ClassInsider,
		InitialCapital: p.Capital,
		Capital:        p.Capital,
		Rationality:    p.Rationality,
		EntryTime:      p.EntryTime,
	}
}

// NewOutsider creates an outsider with no position.
func NewOutsider(id string, p OutsiderParams) *Agent {
	return &Agent{
		ID:             id,
		Class:          domain.ClassOutsider,
		InitialCapital: p.Capital,
		Capital:        p.Capital,
		Rationality:    p.Rationality,
		EntryTime:      p.EntryTime,
		FOMOFactor:     p.FOMOFactor,
	}
}

// Active reports whether the agent participates at tick t.
func (a *Agent) Active(t int) bool {
	return t >= a.EntryTime
}

// UnrealizedProfit returns the paper profit of the open position at price.
func (a *Agent) UnrealizedProfit(price float64) float64 {
	return price*a.Tokens - a.CostBasis*a.Tokens
}

// TotalProfit returns realized plus unrealized profit at price.
func (a *Agent) TotalProfit(price float64) float64 {
	return a.RealizedProfit + a.UnrealizedProfit(price)
}

// TotalValue returns capital plus the marked-to-market position.
func (a *Agent) TotalValue(price float64) float64 {
	return a.Capital + price*a.Tokens
}

// ExecuteTrade applies a trade at the market's current price.
// Invalid trades are rejected with a reason and leave agent and market untouched.
func (a *Agent) ExecuteTrade(m Market, action domain.Action, quantity float64) domain.TradeResult {
	price := m.Price()
	if !action.Valid() {
		return domain.Rejected(domain.RejectUnknownAction, price)
	}

	switch action {
	case domain.ActionBuy:
		return a.buy(m, quantity, price)
	case domain.ActionSell:
		return a.sell(m, quantity, price)
	default:
		return domain.Rejected(domain.RejectNotATrade, price)
	}
}

func (a *Agent) buy(m Market, quantity, price float64) domain.TradeResult {
	if quantity <= 0 {
		return domain.Rejected(domain.RejectNonPositiveQuantity, price)
	}
	if price <= 0 {
		return domain.Rejected(domain.RejectZeroPrice, price)
	}
	cost := quantity * price
	if cost > a.Capital {
		return domain.Rejected(domain.RejectInsufficientCapital, price)
	}

	a.Capital -= cost
	a.CostBasis = (a.CostBasis*a.Tokens + cost) / (a.Tokens + quantity)
	a.Tokens += quantity

	m.UpdatePrice(quantity, domain.ActionBuy)
	tx := m.LogTransaction(a.ID, a.Class, domain.ActionBuy, quantity, price, 0)

	return domain.TradeResult{
		Status:      domain.TradeExecuted,
		Action:      domain.ActionBuy,
		Quantity:    quantity,
		Price:       price,
		Transaction: &tx,
	}
}

func (a *Agent) sell(m Market, quantity, price float64) domain.TradeResult {
	if quantity <= 0 {
		return domain.Rejected(domain.RejectNonPositiveQuantity, price)
	}
	if quantity > a.Tokens {
		return domain.Rejected(domain.RejectInsufficientTokens, price)
	}

	profit := (price - a.CostBasis) * quantity
	a.Capital += quantity * price
	a.RealizedProfit += profit
	a.Tokens -= quantity
	if a.Tokens == 0 {
		a.CostBasis = 0
	}

	m.UpdatePrice(quantity, domain.ActionSell)
	tx := m.LogTransaction(a.ID, a.Class, domain.ActionSell, quantity, price, profit)

	return domain.TradeResult{
		Status:      domain.TradeExecuted,
		Action:      domain.ActionSell,
		Quantity:    quantity,
		Price:       price,
		Profit:      profit,
		Transaction: &tx,
	}
}
