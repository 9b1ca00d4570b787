package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketMode(t *testing.T) {
	mode, err := ParseMarketMode("isolated")
	require.NoError(t, err)
	assert.Equal(t, MarketIsolated, mode)

	mode, err = ParseMarketMode("synthetic")
	require.NoError(t, err)
	assert.Equal(t, MarketSynthetic, mode)

	_, err = ParseMarketMode("orderbook")
	assert.Error(t, err)
}

func TestDecision_IsTrade(t *testing.T) {
	tests := []struct {
		name string
		d    Decision
		want bool
	}{
		{"hold", Hold, false},
		{"buy zero", Decision{Action: ActionBuy}, false},
		{"sell negative", Decision{Action: ActionSell, Quantity: -1}, false},
		{"buy", Decision{Action: ActionBuy, Quantity: 10}, true},
		{"sell", Decision{Action: ActionSell, Quantity: 0.5}, true},
		{"hold with quantity", Decision{Action: ActionHold, Quantity: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.IsTrade())
		})
	}
}

func TestRejected(t *testing.T) {
	r := Rejected(RejectInsufficientCapital, 1.5)
	assert.False(t, r.Executed())
	assert.Equal(t, ActionHold, r.Action)
	assert.Zero(t, r.Quantity)
	assert.Equal(t, 1.5, r.Price)
	assert.Nil(t, r.Transaction)
}
