package reporting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"token-launch-sim/internal/domain"
)

// money formats a capital or profit amount with two decimals.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// price formats a token price. Launch prices are fractions of a unit.
func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(8)
}

func qty(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// modeTitle returns the market mode as used in report titles.
func modeTitle(mode domain.MarketMode) string {
	switch mode {
	case domain.MarketIsolated:
		return "Isolated Market"
	case domain.MarketSynthetic:
		return "Synthetic Market"
	default:
		return string(mode)
	}
}
