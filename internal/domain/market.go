package domain

import "fmt"

// MarketMode selects how sell orders affect price.
type MarketMode string

// Market modes.
const (
	// MarketIsolated is a buy-driven market: sells never move the price.
	MarketIsolated MarketMode = "isolated"
	// MarketSynthetic applies price impact to both buys and sells.
	MarketSynthetic MarketMode = "synthetic"
)

// ParseMarketMode converts a string into a MarketMode.
func ParseMarketMode(s string) (MarketMode, error) {
	switch MarketMode(s) {
	case MarketIsolated, MarketSynthetic:
		return MarketMode(s), nil
	default:
		return "", fmt.Errorf("unknown market mode %q (want %s or %s)", s, MarketIsolated, MarketSynthetic)
	}
}

// Snapshot is the market state every agent sees at the start of a tick.
type Snapshot struct {
	Time            int
	Price           float64
	PublicEntryTime int
}
