package agent

import (
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/randsrc"
)

// DecideFunc is a pure decision policy. It reads the agent, never mutates it,
// and draws all randomness from rng.
type DecideFunc func(a *Agent, rng randsrc.Source, snap domain.Snapshot) domain.Decision

var policies = map[domain.AgentClass]DecideFunc{
	domain.ClassInsider:  decideInsider,
	domain.ClassOutsider: decideOutsider,
}

// Decide runs the policy registered for the agent's class.
// Unknown classes always hold.
func (a *Agent) Decide(rng randsrc.Source, snap domain.Snapshot) domain.Decision {
	fn, ok := policies[a.Class]
	if !ok {
		return domain.Hold
	}
	return fn(a, rng, snap)
}

// Insider policy parameters.
const (
	insiderEntryMinShare  = 0.8
	insiderEntryShareSpan = 0.1
	insiderExitChance     = 0.2
	insiderExitMinShare   = 0.05
	insiderExitShareSpan  = 0.05
)

// decideInsider buys aggressively at entry and trims the position after the
// public has entered.
//
// TODO: replace the random exit with a target-profit or peak-detection rule.
func decideInsider(a *Agent, rng randsrc.Source, snap domain.Snapshot) domain.Decision {
	if snap.Time == a.EntryTime {
		amount := a.Capital * (insiderEntryMinShare + insiderEntryShareSpan*rng.Float64())
		if snap.Price <= 0 {
			return domain.Hold
		}
		return domain.Decision{Action: domain.ActionBuy, Quantity: amount / snap.Price}
	}

	if snap.Time > snap.PublicEntryTime && a.Tokens > 0 {
		if rng.Float64() < insiderExitChance {
			share := insiderExitMinShare + insiderExitShareSpan*rng.Float64()
			return domain.Decision{Action: domain.ActionSell, Quantity: a.Tokens * share}
		}
	}

	return domain.Hold
}

// Outsider policy parameters.
const (
	outsiderFOMOMinShare  = 0.3
	outsiderFOMOShareSpan = 0.4
	outsiderBuyChance     = 0.4
	outsiderSellChance    = 0.6
	outsiderTradeShare    = 0.05
)

// decideOutsider makes an impulsive FOMO buy at entry, then trades small
// amounts with a frequency set by rationality.
func decideOutsider(a *Agent, rng randsrc.Source, snap domain.Snapshot) domain.Decision {
	if snap.Time < a.EntryTime {
		return domain.Hold
	}

	if snap.Time == a.EntryTime && rng.Float64() < a.FOMOFactor {
		amount := a.Capital * (outsiderFOMOMinShare + outsiderFOMOShareSpan*rng.Float64())
		return buyFor(amount, snap.Price)
	}

	if rng.Float64() < a.Rationality {
		if rng.Float64() < outsiderBuyChance {
			amount := a.Capital * outsiderTradeShare * rng.Float64()
			return buyFor(amount, snap.Price)
		}
		if a.Tokens > 0 && rng.Float64() < outsiderSellChance {
			return domain.Decision{
				Action:   domain.ActionSell,
				Quantity: a.Tokens * outsiderTradeShare * rng.Float64(),
			}
		}
	}

	return domain.Hold
}

// buyFor converts a capital amount to a buy decision; a zero price yields
// quantity 0, which the driver treats as hold.
func buyFor(amount, price float64) domain.Decision {
	if price <= 0 {
		return domain.Decision{Action: domain.ActionBuy}
	}
	return domain.Decision{Action: domain.ActionBuy, Quantity: amount / price}
}
