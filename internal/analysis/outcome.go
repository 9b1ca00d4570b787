// Package analysis aggregates the outcome of a finished run.
// All functions are pure: they never mutate their inputs.
package analysis

import (
	"token-launch-sim/internal/agent"
	"token-launch-sim/internal/domain"
)

// AgentOutcome is one agent's final position valued at the final price.
type AgentOutcome struct {
	ID      string
	Address string
	Class   domain.AgentClass

	Capital          float64
	Tokens           float64
	RealizedProfit   float64
	UnrealizedProfit float64
	TotalProfit      float64
	FinalValue       float64
	Return           float64 // total profit / initial capital; 0 when initial capital is 0
}

// ClassOutcome aggregates the profits of one agent class.
type ClassOutcome struct {
	Class domain.AgentClass
	Count int

	TotalProfit      float64
	RealizedProfit   float64
	UnrealizedProfit float64

	// Profit distribution (total profit per agent). All 0 when Count is 0.
	AverageProfit float64
	MedianProfit  float64
	P10Profit     float64
	P90Profit     float64
	StddevProfit  float64
	MinProfit     float64
	MaxProfit     float64

	AverageReturn float64
	Winners       int     // agents with total profit > 0
	WinShare      float64 // Winners / Count
}

// Outcome is the full post-run analysis.
type Outcome struct {
	FinalPrice float64
	Agents     []AgentOutcome // input order
	Classes    []ClassOutcome // domain.AgentClasses order
}

// Class returns the aggregate of class c. Unknown classes yield a zero value.
func (o *Outcome) Class(c domain.AgentClass) ClassOutcome {
	for _, co := range o.Classes {
		if co.Class == c {
			return co
		}
	}
	return ClassOutcome{Class: c}
}

// ProfitGap returns the insider minus the outsider average profit.
func (o *Outcome) ProfitGap() float64 {
	return o.Class(domain.ClassInsider).AverageProfit - o.Class(domain.ClassOutsider).AverageProfit
}

// Analyze values every agent at finalPrice and aggregates by class.
func Analyze(finalPrice float64, agents []*agent.Agent) *Outcome {
	out := &Outcome{
		FinalPrice: finalPrice,
		Agents:     make([]AgentOutcome, 0, len(agents)),
	}

	byClass := make(map[domain.AgentClass][]AgentOutcome)
	for _, a := range agents {
		ao := evaluate(finalPrice, a)
		out.Agents = append(out.Agents, ao)
		byClass[a.Class] = append(byClass[a.Class], ao)
	}

	for _, c := range domain.AgentClasses {
		out.Classes = append(out.Classes, aggregate(c, byClass[c]))
	}

	return out
}

func evaluate(price float64, a *agent.Agent) AgentOutcome {
	unrealized := a.UnrealizedProfit(price)
	total := a.RealizedProfit + unrealized

	ret := 0.0
	if a.InitialCapital > 0 {
		ret = total / a.InitialCapital
	}

	return AgentOutcome{
		ID:               a.ID,
		Address:          a.Address,
		Class:            a.Class,
		Capital:          a.Capital,
		Tokens:           a.Tokens,
		RealizedProfit:   a.RealizedProfit,
		UnrealizedProfit: unrealized,
		TotalProfit:      total,
		FinalValue:       a.TotalValue(price),
		Return:           ret,
	}
}
