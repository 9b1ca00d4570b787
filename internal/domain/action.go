package domain

// Action is what an agent does in a tick.
type Action string

// Action values. Hold is also the downgraded form of a rejected trade.
const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold:
		return true
	default:
		return false
	}
}

// Decision is the output of an agent's decision policy.
type Decision struct {
	Action   Action
	Quantity float64
}

// Hold is the no-op decision.
var Hold = Decision{Action: ActionHold}

// IsTrade reports whether the decision should be sent to the market.
func (d Decision) IsTrade() bool {
	return d.Action != ActionHold && d.Quantity > 0
}
