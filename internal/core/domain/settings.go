package domain

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied when the configuration leaves a value unset.
const (
	DefaultEndpoint      = "https://api-eu.hosted.exlibrisgroup.com/almaws/v1/analytics/reports"
	DefaultRetryCeiling  = 10
	DefaultStatsFile     = "stats.csv"
	DefaultHTTPRetries   = 10
	DefaultBackoffFactor = 300 * time.Millisecond
	DefaultHTTPTimeout   = 60 * time.Second
)

// DefaultStatusForcelist lists the HTTP statuses that are retried with backoff.
var DefaultStatusForcelist = []int{400, 500, 502, 504}

// Settings is the static configuration of one run.
type Settings struct {
	// APIKey authenticates every request. Use a read-only key.
	APIKey string

	// Endpoint is the analytics reports URL.
	Endpoint string

	// DestPath is the directory output files, logs and stats are written to.
	DestPath string

	// PageLimit is the number of rows requested per page.
	PageLimit int

	// RetryCeiling bounds how many times a report fetch is attempted
	// when the service keeps returning malformed bodies.
	RetryCeiling int

	// StatsFile is the name of the append-only stats CSV inside DestPath.
	StatsFile string

	// HistoryDB is the optional path of the run history database.
	HistoryDB string

	// HTTP configures the transport.
	HTTP HTTPSettings

	// Reports are processed in order.
	Reports []ReportDefinition
}

// HTTPSettings configures retries and throttling of the HTTP client.
type HTTPSettings struct {
	// Retries bounds transport level retries per request.
	Retries int

	// BackoffFactor scales the exponential backoff between retries.
	BackoffFactor time.Duration

	// StatusForcelist lists statuses retried like connection errors.
	StatusForcelist []int

	// Timeout is the per-request timeout of the HTTP client.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64
}

// ApplyDefaults fills unset values.
func (s *Settings) ApplyDefaults() {
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	if s.PageLimit <= 0 {
		s.PageLimit = DefaultPageLimit
	}
	if s.RetryCeiling <= 0 {
		s.RetryCeiling = DefaultRetryCeiling
	}
	if s.StatsFile == "" {
		s.StatsFile = DefaultStatsFile
	}
	if s.HTTP.Retries < 0 {
		s.HTTP.Retries = 0
	}
	if s.HTTP.BackoffFactor < 0 {
		s.HTTP.BackoffFactor = 0
	}
	if s.HTTP.StatusForcelist == nil {
		s.HTTP.StatusForcelist = append([]int(nil), DefaultStatusForcelist...)
	}
	if s.HTTP.Timeout <= 0 {
		s.HTTP.Timeout = DefaultHTTPTimeout
	}
}

// Validate checks the settings and every report.
func (s *Settings) Validate() error {
	var errs []error
	if s.APIKey == "" {
		errs = append(errs, errors.New("api key is required"))
	}
	if s.DestPath == "" {
		errs = append(errs, errors.New("dest_path is required"))
	}
	if err := ValidateFileName(s.StatsFile); err != nil {
		errs = append(errs, fmt.Errorf("stats_file: %w", err))
	}
	if len(s.Reports) == 0 {
		errs = append(errs, errors.New("at least one report is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	files := make(map[string]string)
	for i := range s.Reports {
		r := &s.Reports[i]
		if err := r.Validate(); err != nil {
			return err
		}
		for _, v := range r.Files {
			if prev, dup := files[v.Name]; dup {
				return fmt.Errorf("%w: file %q is produced by both %q and %q", ErrInvalidConfig, v.Name, prev, r.Path)
			}
			if v.Name == s.StatsFile {
				return fmt.Errorf("%w: file %q collides with the stats file", ErrInvalidConfig, v.Name)
			}
			files[v.Name] = r.Path
		}
	}
	return nil
}
