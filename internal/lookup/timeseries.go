// Package lookup answers point queries over a recorded price series.
// Every function expects the series ordered by tick ASC, as the driver
// and the stores produce it.
package lookup

import (
	"errors"
	"sort"

	"token-launch-sim/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoPriceData = errors.New("no price data available")
	ErrTickMissing = errors.New("tick not in series")
)

// PriceAt returns the price in force at the end of target tick: the close of
// the latest point at or before target. If target precedes the series, the
// open of the first point is returned.
// Returns ErrNoPriceData if the series is empty.
func PriceAt(target int, series []domain.PricePoint) (float64, error) {
	if len(series) == 0 {
		return 0, ErrNoPriceData
	}

	// First point with Tick > target
	i := sort.Search(len(series), func(i int) bool {
		return series[i].Tick > target
	})
	if i == 0 {
		return series[0].Open, nil
	}
	return series[i-1].Close, nil
}

// PointAt returns the point recorded for exactly tick.
func PointAt(tick int, series []domain.PricePoint) (domain.PricePoint, error) {
	i := sort.Search(len(series), func(i int) bool {
		return series[i].Tick >= tick
	})
	if i == len(series) || series[i].Tick != tick {
		return domain.PricePoint{}, ErrTickMissing
	}
	return series[i], nil
}

// Peak returns the point with the highest close. Ties go to the earliest tick.
func Peak(series []domain.PricePoint) (domain.PricePoint, error) {
	if len(series) == 0 {
		return domain.PricePoint{}, ErrNoPriceData
	}
	best := series[0]
	for _, p := range series[1:] {
		if p.Close > best.Close {
			best = p
		}
	}
	return best, nil
}

// Closes extracts the close prices of a series.
func Closes(series []domain.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Close
	}
	return out
}
