package analysis

import (
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/lookup"
)

// FlowSummary totals the executed trades of one class.
type FlowSummary struct {
	Class      domain.AgentClass
	Buys       int
	Sells      int
	BoughtQty  float64
	SoldQty    float64
	BuyVolume  float64 // sum of quantity * price
	SellVolume float64
}

// MarketSummary describes the price path and trade flow of a run.
type MarketSummary struct {
	InitialPrice float64
	FinalPrice   float64
	PeakPrice    float64
	PeakTick     int
	MaxDrawdown  float64 // fraction of peak
	PriceChange  float64 // (final - initial) / initial; 0 when initial is 0
	Trades       int
	Flows        []FlowSummary // domain.AgentClasses order
}

// SummarizeMarket summarizes a run's price series and transaction log.
func SummarizeMarket(initialPrice float64, series []domain.PricePoint, txs []domain.Transaction) MarketSummary {
	s := MarketSummary{
		InitialPrice: initialPrice,
		FinalPrice:   initialPrice,
		PeakPrice:    initialPrice,
		Trades:       len(txs),
	}

	if peak, err := lookup.Peak(series); err == nil {
		s.FinalPrice = series[len(series)-1].Close
		if peak.Close > s.PeakPrice {
			s.PeakPrice = peak.Close
			s.PeakTick = peak.Tick
		}
	}

	path := append([]float64{initialPrice}, lookup.Closes(series)...)
	s.MaxDrawdown = computeMaxDrawdown(path)
	if initialPrice > 0 {
		s.PriceChange = (s.FinalPrice - initialPrice) / initialPrice
	}

	flows := make(map[domain.AgentClass]*FlowSummary, len(domain.AgentClasses))
	for _, c := range domain.AgentClasses {
		flows[c] = &FlowSummary{Class: c}
	}
	for _, tx := range txs {
		f, ok := flows[tx.AgentClass]
		if !ok {
			continue
		}
		switch tx.Action {
		case domain.ActionBuy:
			f.Buys++
			f.BoughtQty += tx.Quantity
			f.BuyVolume += tx.Notional()
		case domain.ActionSell:
			f.Sells++
			f.SoldQty += tx.Quantity
			f.SellVolume += tx.Notional()
		}
	}
	for _, c := range domain.AgentClasses {
		s.Flows = append(s.Flows, *flows[c])
	}

	return s
}
