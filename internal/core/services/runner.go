package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
	"github.com/custodia-labs/almalister/internal/logger"
)

// Ensure ReportRunner implements the interface.
var _ driving.ReportRunner = (*ReportRunner)(nil)

// ReportRunner coordinates one run over every configured report and file variant.
type ReportRunner struct {
	settings  *domain.Settings
	collector *ReportCollector
	formatter *OutputFormatter
	filters   driven.FilterBuilder
	output    driven.OutputStore
	stats     driven.StatsRecorder
	history   driven.RunHistoryStore

	now   func() time.Time
	newID func() string
}

// NewReportRunner creates a runner.
// history and observer are optional - if nil, runs are not recorded and no progress is reported.
func NewReportRunner(
	settings *domain.Settings,
	fetcher driven.PageFetcher,
	filters driven.FilterBuilder,
	output driven.OutputStore,
	stats driven.StatsRecorder,
	history driven.RunHistoryStore,
	observer driven.ProgressObserver,
) *ReportRunner {
	return &ReportRunner{
		settings:  settings,
		collector: NewReportCollector(fetcher, settings.PageLimit, observer),
		formatter: NewOutputFormatter(),
		filters:   filters,
		output:    output,
		stats:     stats,
		history:   history,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Run processes the selected file variants in configuration order.
// A failing variant never stops the remaining ones; only cancellation does.
func (r *ReportRunner) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{
		ID:        r.newID(),
		StartedAt: r.now(),
	}
	logger.Info("Starting run %s", summary.ID)
	r.recordStart(ctx, summary)

	var errs []error
	selected := 0

reports:
	for i := range r.settings.Reports {
		report := &r.settings.Reports[i]
		if !matches(opts.Reports, report.Path) {
			continue
		}
		logger.Section(report.Path)

		for _, variant := range report.Files {
			if !matches(opts.Files, variant.Name) {
				continue
			}
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break reports
			}
			selected++

			result, err := r.runVariant(ctx, report, variant)
			summary.Variants = append(summary.Variants, result)
			r.recordVariant(ctx, summary.ID, &result)
			if err != nil {
				logger.Error("%s %s: %v", result.Status, variant.Name, err)
				errs = append(errs, fmt.Errorf("%s: %w", variant.Name, err))
			}
		}
	}

	summary.FinishedAt = r.now()
	r.recordFinish(ctx, summary)

	if selected == 0 && len(errs) == 0 {
		return summary, domain.ErrNoVariantsSelected
	}
	logger.Info("Run %s complete: %d succeeded, %d failed, %d rows",
		summary.ID, summary.Succeeded(), summary.Failed(), summary.TotalRows())
	return summary, errors.Join(errs...)
}

// runVariant fetches, formats and writes one output file.
// Malformed responses restart the whole fetch, up to the retry ceiling.
func (r *ReportRunner) runVariant(
	ctx context.Context,
	report *domain.ReportDefinition,
	variant domain.FileVariant,
) (domain.VariantResult, error) {
	result := domain.VariantResult{
		ReportPath: report.Path,
		FileName:   variant.Name,
		StartedAt:  r.now(),
	}
	fail := func(status domain.VariantStatus, err error) (domain.VariantResult, error) {
		result.Status = status
		result.Error = err.Error()
		result.FinishedAt = r.now()
		return result, err
	}

	logger.Info("Updating %s", variant.Name)

	var filter string
	if variant.Filtered() {
		f, err := r.filters.BuildFilter(report.Variable, variant.Values)
		if err != nil {
			return fail(domain.VariantFailed, fmt.Errorf("build filter: %w", err))
		}
		filter = f
	}

	ceiling := r.settings.RetryCeiling
	if ceiling <= 0 {
		ceiling = domain.DefaultRetryCeiling
	}

	var coll *domain.Collection
	for attempt := 1; ; attempt++ {
		result.Attempts = attempt

		var err error
		coll, err = r.collector.Collect(ctx, report, variant.Name, filter)
		if coll != nil {
			result.Pages = coll.Pages
			result.Requests = coll.Requests
		}
		if err == nil {
			break
		}
		if !domain.IsRetryable(err) {
			return fail(domain.VariantFailed, err)
		}
		if attempt >= ceiling {
			return fail(domain.VariantAbandoned,
				fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryCeiling, attempt, err))
		}
		logger.Warn("Attempt %d/%d for %s hit a malformed response, restarting report: %v",
			attempt, ceiling, variant.Name, err)
	}

	content := r.formatter.Format(coll.Rows, report.SortBy, report.Format)
	if err := r.output.Write(ctx, variant.Name, content); err != nil {
		return fail(domain.VariantFailed, fmt.Errorf("write output: %w", err))
	}

	if err := r.stats.Record(ctx, r.now(), variant.Name, coll.Counts); err != nil {
		return fail(domain.VariantFailed, fmt.Errorf("record stats: %w", err))
	}

	for _, e := range coll.Counts.Entries() {
		logger.Info(" - %s: %d", e.Category, e.Count)
	}

	result.Status = domain.VariantSucceeded
	result.Rows = len(coll.Rows)
	result.Counts = coll.Counts
	result.FinishedAt = r.now()
	return result, nil
}

func (r *ReportRunner) recordStart(ctx context.Context, summary *domain.RunSummary) {
	if r.history == nil {
		return
	}
	if err := r.history.StartRun(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("Failed to record run start: %v", err)
	}
}

func (r *ReportRunner) recordVariant(ctx context.Context, runID string, result *domain.VariantResult) {
	if r.history == nil {
		return
	}
	if err := r.history.SaveVariant(context.WithoutCancel(ctx), runID, result); err != nil {
		logger.Warn("Failed to record result for %s: %v", result.FileName, err)
	}
}

func (r *ReportRunner) recordFinish(ctx context.Context, summary *domain.RunSummary) {
	if r.history == nil {
		return
	}
	// History writes outlive cancellation of the run.
	if err := r.history.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("Failed to record run finish: %v", err)
	}
}

// matches returns true when filter is empty or contains value.
func matches(filter []string, value string) bool {
	return len(filter) == 0 || slices.Contains(filter, value)
}
