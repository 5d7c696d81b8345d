package driven

import (
	"context"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// RunHistoryStore persists the outcome of runs.
type RunHistoryStore interface {
	// StartRun records a new run.
	StartRun(ctx context.Context, run *domain.RunSummary) error

	// SaveVariant appends a variant outcome to a run.
	SaveVariant(ctx context.Context, runID string, result *domain.VariantResult) error

	// FinishRun records the finish time of a run.
	FinishRun(ctx context.Context, run *domain.RunSummary) error

	// ListRuns returns the most recent runs, newest first, with their variants.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}
