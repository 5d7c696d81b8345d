package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure RunHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*RunHistoryStore)(nil)

// RunHistoryStore is an in-memory implementation of driven.RunHistoryStore.
type RunHistoryStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.RunSummary
}

// NewRunHistoryStore creates a new in-memory run history store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{
		runs: make(map[string]*domain.RunSummary),
	}
}

// StartRun records the start of a run.
func (s *RunHistoryStore) StartRun(_ context.Context, run *domain.RunSummary) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = &domain.RunSummary{
		ID:        run.ID,
		StartedAt: run.StartedAt,
	}
	return nil
}

// SaveVariant appends a variant result to a run.
func (s *RunHistoryStore) SaveVariant(_ context.Context, runID string, result *domain.VariantResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	run.Variants = append(run.Variants, *result)
	return nil
}

// FinishRun records the end time of a run.
func (s *RunHistoryStore) FinishRun(_ context.Context, run *domain.RunSummary) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.runs[run.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.FinishedAt = run.FinishedAt
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (s *RunHistoryStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		cp.Variants = slices.Clone(run.Variants)
		runs = append(runs, cp)
	}
	slices.SortFunc(runs, func(a, b domain.RunSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
