package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launch-sim/internal/domain"
)

func TestSummarizeMarket(t *testing.T) {
	series := []domain.PricePoint{
		{Tick: 1, Open: 1, Close: 2},
		{Tick: 2, Open: 2, Close: 4},
		{Tick: 3, Open: 4, Close: 3},
	}
	txs := []domain.Transaction{
		{Seq: 1, AgentClass: domain.ClassInsider, Action: domain.ActionBuy, Quantity: 10, Price: 1},
		{Seq: 2, AgentClass: domain.ClassOutsider, Action: domain.ActionBuy, Quantity: 5, Price: 2},
		{Seq: 3, AgentClass: domain.ClassInsider, Action: domain.ActionSell, Quantity: 4, Price: 4},
	}

	s := SummarizeMarket(1, series, txs)

	assert.Equal(t, 3.0, s.FinalPrice)
	assert.Equal(t, 4.0, s.PeakPrice)
	assert.Equal(t, 2, s.PeakTick)
	assert.InDelta(t, 0.25, s.MaxDrawdown, 1e-12)
	assert.InDelta(t, 2.0, s.PriceChange, 1e-12)
	assert.Equal(t, 3, s.Trades)

	require.Len(t, s.Flows, 2)
	in := s.Flows[0]
	assert.Equal(t, domain.ClassInsider, in.Class)
	assert.Equal(t, 1, in.Buys)
	assert.Equal(t, 1, in.Sells)
	assert.Equal(t, 10.0, in.BuyVolume)
	assert.Equal(t, 16.0, in.SellVolume)
	assert.Equal(t, 5.0, s.Flows[1].BoughtQty)
}

func TestSummarizeMarket_EmptySeries(t *testing.T) {
	s := SummarizeMarket(0.01, nil, nil)

	assert.Equal(t, 0.01, s.FinalPrice)
	assert.Equal(t, 0.01, s.PeakPrice)
	assert.Equal(t, 0, s.PeakTick)
	assert.Equal(t, 0.0, s.PriceChange)
	assert.Len(t, s.Flows, 2)
}
