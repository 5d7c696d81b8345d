package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
	"github.com/custodia-labs/almalister/internal/logger"
)

// ReportCollector fetches every page of a report and buffers the accepted rows.
// Pages are fetched strictly one at a time: the resumption token is a
// single-threaded cursor.
type ReportCollector struct {
	fetcher   driven.PageFetcher
	pageLimit int
	observer  driven.ProgressObserver
}

// NewReportCollector creates a collector. The observer may be nil.
func NewReportCollector(fetcher driven.PageFetcher, pageLimit int, observer driven.ProgressObserver) *ReportCollector {
	if pageLimit <= 0 {
		pageLimit = domain.DefaultPageLimit
	}
	return &ReportCollector{
		fetcher:   fetcher,
		pageLimit: pageLimit,
		observer:  observer,
	}
}

// Collect runs the fetch loop for one file variant until the service reports
// the report finished. filter may be empty for an unfiltered fetch.
//
// On error the returned collection only reports how far the loop got;
// its rows must not be written anywhere.
func (c *ReportCollector) Collect(
	ctx context.Context,
	report *domain.ReportDefinition,
	fileName string,
	filter string,
) (coll *domain.Collection, err error) {
	var state domain.ResumptionState
	coll = &domain.Collection{Counts: domain.NewCounts()}
	if c.observer != nil {
		defer func() { c.observer.FetchDone(report.Path, fileName, err) }()
	}

	for {
		if err := ctx.Err(); err != nil {
			return coll, err
		}

		query := state.Next(report.Path, c.pageLimit, filter)
		coll.Requests++
		page, err := c.fetcher.Fetch(ctx, query)
		if err != nil {
			return coll, fmt.Errorf("fetch page %d: %w", coll.Requests, err)
		}
		coll.Pages++

		accepted := 0
		for _, raw := range page.Rows {
			row, ok := domain.ExtractRow(raw, report.Columns)
			if !ok {
				continue
			}
			coll.Rows = append(coll.Rows, row)
			coll.Counts.Add(row[domain.FieldProcessType])
			accepted++
		}

		// An empty page with just a token happens when the service is busy.
		if len(page.Rows) == 0 {
			logger.Debug("Page %d of %s: no rows (token=%t finished=%t)", coll.Pages, fileName, page.HasToken, page.Finished)
		} else {
			logger.Debug("Page %d of %s: %d rows, %d accepted", coll.Pages, fileName, len(page.Rows), accepted)
		}

		state.Advance(page)
		if c.observer != nil {
			c.observer.PageFetched(report.Path, fileName, coll.Pages, len(coll.Rows))
		}

		if page.Finished {
			return coll, nil
		}
		if !state.Continuing() {
			return coll, fmt.Errorf("page %d: %w", coll.Pages, domain.ErrMissingResumptionToken)
		}
	}
}
