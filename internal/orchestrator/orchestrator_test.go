package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launch-sim/internal/config"
	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/storage/memory"
)

func TestOrchestrator_Run_ComparesBothModes(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultRun()

	cmp, err := New(Options{}).Run(ctx, cfg)
	require.NoError(t, err)

	require.Len(t, cmp.Modes, 2)
	assert.Equal(t, domain.MarketIsolated, cmp.Modes[0].Mode)
	assert.Equal(t, domain.MarketSynthetic, cmp.Modes[1].Mode)
	assert.Equal(t, cfg.Seed, cmp.Seed)
	assert.True(t, cmp.Passed())

	for _, m := range cmp.Modes {
		assert.Equal(t, m.Mode, m.Result.Config.Market.Mode)
		assert.Equal(t, m.Result.FinalPrice(), m.Summary.FinalPrice)
		assert.Len(t, m.Outcome.Agents, cfg.Insiders.Count+cfg.Outsiders.Count)
	}
	assert.NotEqual(t, cmp.Modes[0].Result.RunID, cmp.Modes[1].Result.RunID)

	require.NotEmpty(t, cmp.Rows)
	for _, row := range cmp.Rows {
		assert.InDelta(t, row.Synthetic-row.Isolated, row.Delta, 1e-12, row.Metric)
	}
	assert.Equal(t, "Final price", cmp.Rows[0].Metric)
	assert.Equal(t, cmp.Mode(domain.MarketIsolated).Summary.FinalPrice, cmp.Rows[0].Isolated)
}

func TestOrchestrator_Run_Deterministic(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultRun()
	cfg.Seed = 42

	a, err := New(Options{}).Run(ctx, cfg)
	require.NoError(t, err)
	b, err := New(Options{}).Run(ctx, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Rows, b.Rows)
}

func TestOrchestrator_Run_SingleModeHasNoRows(t *testing.T) {
	cmp, err := New(Options{Modes: []domain.MarketMode{domain.MarketSynthetic}}).
		Run(context.Background(), config.DefaultRun())
	require.NoError(t, err)

	require.Len(t, cmp.Modes, 1)
	assert.Nil(t, cmp.Mode(domain.MarketIsolated))
	assert.NotNil(t, cmp.Mode(domain.MarketSynthetic))
	assert.Empty(t, cmp.Rows)
}

func TestOrchestrator_Run_PersistsEveryMode(t *testing.T) {
	ctx := context.Background()
	txStore := memory.NewTransactionStore()
	priceStore := memory.NewPriceSeriesStore()
	cfg := config.DefaultRun()

	cmp, err := New(Options{TransactionStore: txStore, PriceStore: priceStore}).Run(ctx, cfg)
	require.NoError(t, err)

	for _, m := range cmp.Modes {
		txs, err := txStore.GetByRun(ctx, m.Result.RunID)
		require.NoError(t, err)
		assert.Len(t, txs, len(m.Result.Transactions()))

		prices, err := priceStore.GetByRun(ctx, m.Result.RunID)
		require.NoError(t, err)
		assert.Len(t, prices, cfg.Duration)
	}
}

func TestOrchestrator_Run_Errors(t *testing.T) {
	bad := config.DefaultRun()
	bad.Duration = -1
	_, err := New(Options{}).Run(context.Background(), bad)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Options{}).Run(ctx, config.DefaultRun())
	assert.True(t, errors.Is(err, context.Canceled))
}
