package driving

import (
	"context"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// ReportRunner fetches every configured report and updates its output files.
type ReportRunner interface {
	// Run processes all selected file variants in order. All variants are
	// attempted; the returned error joins the failures, if any.
	Run(ctx context.Context, opts RunOptions) (*domain.RunSummary, error)
}

// RunOptions narrows a run.
type RunOptions struct {
	// Reports restricts the run to these report paths. Empty means all.
	Reports []string

	// Files restricts the run to these output file names. Empty means all.
	Files []string
}

// RunHistory lists past runs.
type RunHistory interface {
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// SettingsLoader loads the run configuration.
type SettingsLoader interface {
	// Load reads, defaults and validates the configuration at path.
	Load(path string) (*domain.Settings, error)
}
