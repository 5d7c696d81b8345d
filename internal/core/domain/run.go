package domain

import "time"

// VariantStatus is the outcome of one file variant.
type VariantStatus string

// Variant outcomes.
const (
	// VariantSucceeded means the file was written and stats recorded.
	VariantSucceeded VariantStatus = "succeeded"

	// VariantFailed means a transport, service or storage error stopped the variant.
	VariantFailed VariantStatus = "failed"

	// VariantAbandoned means the retry ceiling for malformed responses was reached.
	VariantAbandoned VariantStatus = "abandoned"
)

// IsValid returns true if the status is recognised.
func (s VariantStatus) IsValid() bool {
	switch s {
	case VariantSucceeded, VariantFailed, VariantAbandoned:
		return true
	default:
		return false
	}
}

// VariantResult records what happened to one file variant.
type VariantResult struct {
	ReportPath string
	FileName   string
	Status     VariantStatus

	// Rows is the number of accepted rows written.
	Rows int

	// Pages and Requests count the pages fetched on the last attempt.
	Pages    int
	Requests int

	// Attempts is how many times the report fetch was started.
	Attempts int

	// Counts holds the per process type tallies. Nil unless the variant succeeded.
	Counts *Counts

	// Error is the failure message, empty on success.
	Error string

	StartedAt  time.Time
	FinishedAt time.Time
}

// RunSummary records one invocation over all configured variants.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Variants   []VariantResult
}

// Succeeded returns the number of variants that succeeded.
func (s *RunSummary) Succeeded() int {
	return s.countStatus(VariantSucceeded)
}

// Failed returns the number of variants that failed or were abandoned.
func (s *RunSummary) Failed() int {
	return len(s.Variants) - s.Succeeded()
}

// TotalRows returns the rows written across all variants.
func (s *RunSummary) TotalRows() int {
	total := 0
	for _, v := range s.Variants {
		total += v.Rows
	}
	return total
}

func (s *RunSummary) countStatus(status VariantStatus) int {
	n := 0
	for _, v := range s.Variants {
		if v.Status == status {
			n++
		}
	}
	return n
}

// Collection is the buffered result of one complete report fetch.
type Collection struct {
	Rows     []Row
	Counts   *Counts
	Pages    int
	Requests int
}
