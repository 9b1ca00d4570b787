package reporting

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoChartData is returned when a report has no price points to plot.
var ErrNoChartData = errors.New("no price data to chart")

const (
	chartWidth  = 1024
	chartHeight = 512
)

// RenderChart writes a PNG of the price path with dashed markers at the
// insider and outsider entry ticks.
func RenderChart(w io.Writer, r *Report) error {
	if len(r.Prices) == 0 {
		return ErrNoChartData
	}

	// Launch point, then the close of every tick
	xs := make([]float64, 0, len(r.Prices)+1)
	ys := make([]float64, 0, len(r.Prices)+1)
	xs = append(xs, float64(r.Prices[0].Tick-1))
	ys = append(ys, r.Prices[0].Open)
	for _, p := range r.Prices {
		xs = append(xs, float64(p.Tick))
		ys = append(ys, p.Close)
	}

	lo, hi := priceRange(ys)
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Price",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlue,
				StrokeWidth: 2,
			},
		},
	}

	first, last := xs[0], xs[len(xs)-1]
	marker := func(name string, tick int, color drawing.Color) {
		x := float64(tick)
		if x < first || x > last {
			return
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (t=%d)", name, tick),
			XValues: []float64{x, x},
			YValues: []float64{lo, hi},
			Style: chart.Style{
				StrokeColor:     color,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}
	marker("Insider entry", r.InsiderEntry, drawing.ColorRed)
	marker("Outsider entry", r.PublicEntry, drawing.ColorGreen)

	graph := chart.Chart{
		Title:  fmt.Sprintf("Token Price (%s)", modeTitle(r.Mode)),
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Tick",
		},
		YAxis: chart.YAxis{
			Name:  "Price",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// priceRange returns a padded, non-empty Y range covering ys.
func priceRange(ys []float64) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = min(lo, y)
		hi = max(hi, y)
	}

	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = max(hi*0.05, 1e-9)
	}
	return max(0, lo-pad), hi + pad
}
