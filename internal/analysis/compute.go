package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"token-launch-sim/internal/domain"
)

// aggregate computes the class statistics of outcomes.
// An empty class yields zero for every statistic.
func aggregate(class domain.AgentClass, outcomes []AgentOutcome) ClassOutcome {
	co := ClassOutcome{Class: class, Count: len(outcomes)}
	n := len(outcomes)
	if n == 0 {
		return co
	}

	profits := make([]float64, n)
	returns := make([]float64, n)
	for i, o := range outcomes {
		profits[i] = o.TotalProfit
		returns[i] = o.Return
		co.RealizedProfit += o.RealizedProfit
		co.UnrealizedProfit += o.UnrealizedProfit
		if o.TotalProfit > 0 {
			co.Winners++
		}
	}

	// Sort profits for percentile calculations
	sorted := make([]float64, n)
	copy(sorted, profits)
	sort.Float64s(sorted)

	co.TotalProfit = floats.Sum(profits)
	co.AverageProfit = stat.Mean(profits, nil)
	co.MedianProfit = computePercentile(sorted, 0.50)
	co.P10Profit = computePercentile(sorted, 0.10)
	co.P90Profit = computePercentile(sorted, 0.90)
	co.StddevProfit = computeStddev(profits)
	co.MinProfit = floats.Min(profits)
	co.MaxProfit = floats.Max(profits)
	co.AverageReturn = stat.Mean(returns, nil)
	co.WinShare = float64(co.Winners) / float64(n)

	return co
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0 // Need at least 2 samples for sample stddev
	}
	return stat.StdDev(values, nil)
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	// Linear interpolation
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxDrawdown calculates the worst peak-to-trough fall of a price path
// as a fraction of the peak. Prices must be in chronological order.
func computeMaxDrawdown(prices []float64) float64 {
	peak := 0.0
	maxDrawdown := 0.0

	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			if dd := (peak - p) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	return maxDrawdown
}
