package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// OutputStore replaces output files.
type OutputStore interface {
	// Write replaces the named file with content. Readers must never observe
	// a partially written file: either the old or the new content is visible.
	Write(ctx context.Context, name string, content []byte) error
}

// StatsRecorder keeps the running statistics of successful file variants.
type StatsRecorder interface {
	// Record appends one stats row per category and rewrites the file's log.
	Record(ctx context.Context, date time.Time, fileName string, counts *domain.Counts) error
}

// ProgressObserver receives progress of a report fetch.
type ProgressObserver interface {
	// PageFetched is called after every page with the running number of accepted rows.
	PageFetched(reportPath, fileName string, page, rows int)

	// FetchDone is called once when a fetch attempt ends, err is nil on success.
	FetchDone(reportPath, fileName string, err error)
}
