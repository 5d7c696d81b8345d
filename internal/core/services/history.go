package services

import (
	"context"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
)

// Ensure RunHistoryService implements the interface.
var _ driving.RunHistory = (*RunHistoryService)(nil)

// DefaultHistoryLimit is used when no positive limit is requested.
const DefaultHistoryLimit = 10

// RunHistoryService lists past runs.
type RunHistoryService struct {
	store driven.RunHistoryStore
}

// NewRunHistoryService creates a history service. store may be nil.
func NewRunHistoryService(store driven.RunHistoryStore) *RunHistoryService {
	return &RunHistoryService{store: store}
}

// Recent returns up to limit runs, newest first.
func (s *RunHistoryService) Recent(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.store == nil {
		return nil, domain.ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.ListRuns(ctx, limit)
}
