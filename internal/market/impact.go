package market

// ImpactFunc maps a trade size to the absolute price delta it causes.
// Implementations must be pure functions of quantity.
type ImpactFunc func(quantity float64) float64

// DefaultImpactCoefficient is the per-token price delta of the linear law.
const DefaultImpactCoefficient = 1e-6

// LinearImpact returns delta = quantity * k.
//
// This is a stand-in for a bonding-curve or liquidity-depth based impact.
// TODO: replace with a pool-reserve impact once curve parameters are fixed.
func LinearImpact(k float64) ImpactFunc {
	return func(quantity float64) float64 {
		return quantity * k
	}
}
