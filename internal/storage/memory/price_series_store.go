package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"token-launch-sim/internal/domain"
	"token-launch-sim/internal/storage"
)

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
type PriceSeriesStore struct {
	mu   sync.RWMutex
	data map[string]map[int]domain.PricePoint // run_id -> tick -> point
}

// NewPriceSeriesStore creates a new in-memory price series store.
func NewPriceSeriesStore() *PriceSeriesStore {
	return &PriceSeriesStore{
		data: make(map[string]map[int]domain.PricePoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *PriceSeriesStore) InsertBulk(_ context.Context, runID string, points []domain.PricePoint) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]
	batchTicks := make(map[int]struct{}, len(points))

	// First pass: check for duplicates (existing + intra-batch)
	for _, p := range points {
		if p.Tick < 0 {
			return storage.ErrInvalidInput
		}
		if _, exists := existing[p.Tick]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchTicks[p.Tick]; exists {
			return storage.ErrDuplicateKey
		}
		batchTicks[p.Tick] = struct{}{}
	}

	// Second pass: insert all
	if existing == nil {
		existing = make(map[int]domain.PricePoint, len(points))
		s.data[runID] = existing
	}
	for _, p := range points {
		existing[p.Tick] = p
	}

	return nil
}

// GetByRun retrieves all points of a run, ordered by tick ASC.
func (s *PriceSeriesStore) GetByRun(ctx context.Context, runID string) ([]domain.PricePoint, error) {
	return s.GetByTickRange(ctx, runID, 0, math.MaxInt)
}

// GetByTickRange retrieves points with tick within [start, end] (inclusive).
func (s *PriceSeriesStore) GetByTickRange(_ context.Context, runID string, start, end int) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PricePoint
	for tick, p := range s.data[runID] {
		if tick >= start && tick <= end {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Tick < result[j].Tick
	})

	return result, nil
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)
