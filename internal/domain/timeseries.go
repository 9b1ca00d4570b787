package domain

// PricePoint is the recorded market state for one tick.
type PricePoint struct {
	Tick         int
	Open         float64 // price in the tick snapshot
	Close        float64 // price after every active agent acted
	ActiveAgents int
	Trades       int
}
