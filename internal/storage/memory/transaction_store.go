package memory

import (
	"context"
	"sort"
	"sync"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]map[string]domain.Transaction // run_id -> tx_id -> tx
	seqs map[string]map[int64]struct{}            // run_id -> seq
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]map[string]domain.Transaction),
		seqs: make(map[string]map[int64]struct{}),
	}
}

// InsertBulk adds a run's transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, runID string, txs []domain.Transaction) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]
	existingSeqs := s.seqs[runID]

	// Track keys in this batch to detect intra-batch duplicates
	batchIDs := make(map[string]struct{}, len(txs))
	batchSeqs := make(map[int64]struct{}, len(txs))

	// First pass: validate and check for duplicates (existing + intra-batch)
	for _, tx := range txs {
		if tx.TxID == "" || tx.Seq <= 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := existing[tx.TxID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := existingSeqs[tx.Seq]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchIDs[tx.TxID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchSeqs[tx.Seq]; exists {
			return storage.ErrDuplicateKey
		}
		batchIDs[tx.TxID] = struct{}{}
		batchSeqs[tx.Seq] = struct{}{}
	}

	// Second pass: insert all
	if existing == nil {
		existing = make(map[string]domain.Transaction, len(txs))
		existingSeqs = make(map[int64]struct{}, len(txs))
		s.data[runID] = existing
		s.seqs[runID] = existingSeqs
	}
	for _, tx := range txs {
		existing[tx.TxID] = tx
		existingSeqs[tx.Seq] = struct{}{}
	}

	return nil
}

// GetByRun retrieves all transactions of a run, ordered by seq ASC.
func (s *TransactionStore) GetByRun(_ context.Context, runID string) ([]domain.Transaction, error) {
	return s.filter(runID, func(domain.Transaction) bool { return true }), nil
}

// GetByAgent retrieves one agent's transactions, ordered by seq ASC.
func (s *TransactionStore) GetByAgent(_ context.Context, runID, agentID string) ([]domain.Transaction, error) {
	return s.filter(runID, func(tx domain.Transaction) bool {
		return tx.AgentID == agentID
	}), nil
}

// GetByTimeRange retrieves transactions with tick within [start, end] (inclusive).
func (s *TransactionStore) GetByTimeRange(_ context.Context, runID string, start, end int) ([]domain.Transaction, error) {
	return s.filter(runID, func(tx domain.Transaction) bool {
		return tx.Time >= start && tx.Time <= end
	}), nil
}

// GetByTxID retrieves a single transaction. Returns ErrNotFound if not exists.
func (s *TransactionStore) GetByTxID(_ context.Context, runID, txID string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.data[runID][txID]
	if !exists {
		return domain.Transaction{}, storage.ErrNotFound
	}
	return tx, nil
}

func (s *TransactionStore) filter(runID string, keep func(domain.Transaction) bool) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Transaction
	for _, tx := range s.data[runID] {
		if keep(tx) {
			result = append(result, tx)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
