package storage

import (
	"context"

	"token-launch-sim/internal/domain"
)

// TransactionStore holds the transaction logs of finished runs.
// Records are append-only and scoped by run_id.
type TransactionStore interface {
	// InsertBulk adds a run's transactions atomically.
	// Fails entire batch on duplicate (run_id, tx_id) or (run_id, seq).
	InsertBulk(ctx context.Context, runID string, txs []domain.Transaction) error

	// GetByRun retrieves all transactions of a run, ordered by seq ASC.
	GetByRun(ctx context.Context, runID string) ([]domain.Transaction, error)

	// GetByAgent retrieves one agent's transactions of a run, ordered by seq ASC.
	GetByAgent(ctx context.Context, runID, agentID string) ([]domain.Transaction, error)

	// GetByTimeRange retrieves transactions with tick within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, runID string, start, end int) ([]domain.Transaction, error)

	// GetByTxID retrieves a single transaction. Returns ErrNotFound if not exists.
	GetByTxID(ctx context.Context, runID, txID string) (domain.Transaction, error)
}

// PriceSeriesStore holds the per-tick price series of finished runs.
type PriceSeriesStore interface {
	// InsertBulk adds points atomically. Fails entire batch on duplicate (run_id, tick).
	InsertBulk(ctx context.Context, runID string, points []domain.PricePoint) error

	// GetByRun retrieves all points of a run, ordered by tick ASC.
	GetByRun(ctx context.Context, runID string) ([]domain.PricePoint, error)

	// GetByTickRange retrieves points with tick within [start, end] (inclusive).
	GetByTickRange(ctx context.Context, runID string, start, end int) ([]domain.PricePoint, error)
}
