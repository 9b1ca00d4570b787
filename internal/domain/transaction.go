package domain

// Transaction is one executed trade in the market log.
// Entries are immutable once appended.
type Transaction struct {
	Seq        int64      // 1-based position in the log
	TxID       string     // deterministic base58 id
	Time       int        // market tick of execution
	AgentID    string     // e.g. "I-0"
	AgentClass AgentClass // insider | outsider
	Action     Action     // buy | sell
	Quantity   float64    // tokens traded
	Price      float64    // price at execution, before impact
	Profit     float64    // realized profit, 0 for buys
}

// Notional returns quantity * price.
func (t Transaction) Notional() float64 {
	return t.Quantity * t.Price
}
