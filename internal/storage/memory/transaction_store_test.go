package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/storage"
)

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{Seq: 1, TxID: "tx1", Time: 1, AgentID: "I-0", AgentClass: domain.ClassInsider, Action: domain.ActionBuy, Quantity: 1000, Price: 0.01},
		{Seq: 2, TxID: "tx2", Time: 1, AgentID: "I-1", AgentClass: domain.ClassInsider, Action: domain.ActionBuy, Quantity: 500, Price: 0.011},
		{Seq: 3, TxID: "tx3", Time: 21, AgentID: "O-0", AgentClass: domain.ClassOutsider, Action: domain.ActionBuy, Quantity: 200, Price: 0.02},
		{Seq: 4, TxID: "tx4", Time: 22, AgentID: "I-0", AgentClass: domain.ClassInsider, Action: domain.ActionSell, Quantity: 100, Price: 0.02, Profit: 1},
	}
}

func TestTransactionStore_InsertBulkAndGetByRun(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-1", sampleTransactions()))

	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, tx := range got {
		assert.Equal(t, int64(i+1), tx.Seq)
	}

	other, err := store.GetByRun(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTransactionStore_GetByAgent(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, "run-1", sampleTransactions()))

	got, err := store.GetByAgent(ctx, "run-1", "I-0")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionBuy, got[0].Action)
	assert.Equal(t, domain.ActionSell, got[1].Action)
}

func TestTransactionStore_GetByTimeRange(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, "run-1", sampleTransactions()))

	got, err := store.GetByTimeRange(ctx, "run-1", 20, 21)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tx3", got[0].TxID)

	got, err = store.GetByTimeRange(ctx, "run-1", 1, 22)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestTransactionStore_GetByTxID(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, "run-1", sampleTransactions()))

	tx, err := store.GetByTxID(ctx, "run-1", "tx4")
	require.NoError(t, err)
	assert.Equal(t, 1.0, tx.Profit)

	_, err = store.GetByTxID(ctx, "run-1", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactionStore_DuplicateKey(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()
	require.NoError(t, store.InsertBulk(ctx, "run-1", sampleTransactions()))

	err := store.InsertBulk(ctx, "run-1", sampleTransactions()[:1])
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same seq with a new tx id is still a duplicate log position.
	err = store.InsertBulk(ctx, "run-1", []domain.Transaction{{Seq: 1, TxID: "fresh"}})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same keys under another run are fine.
	assert.NoError(t, store.InsertBulk(ctx, "run-2", sampleTransactions()))
}

func TestTransactionStore_IntraBatchDuplicate(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	txs := []domain.Transaction{
		{Seq: 1, TxID: "a"},
		{Seq: 2, TxID: "a"},
	}
	assert.ErrorIs(t, store.InsertBulk(ctx, "run-1", txs), storage.ErrDuplicateKey)

	// Entire batch must be rejected.
	got, err := store.GetByRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTransactionStore_InvalidInput(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.InsertBulk(ctx, "", sampleTransactions()), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.InsertBulk(ctx, "run-1", []domain.Transaction{{Seq: 1}}), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.InsertBulk(ctx, "run-1", []domain.Transaction{{TxID: "x"}}), storage.ErrInvalidInput)
	assert.NoError(t, store.InsertBulk(ctx, "run-1", nil))
}
