package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// --- Fakes shared by collector and runner tests ---

// step is one scripted response of scriptedFetcher.
type step struct {
	page *domain.Page
	err  error
}

func pageStep(rows []domain.RawRow, token string, finished bool) step {
	return step{page: &domain.Page{Rows: rows, Token: token, HasToken: token != "", Finished: finished}}
}

func errStep(err error) step {
	return step{err: err}
}

func malformedStep() step {
	return step{err: fmt.Errorf("parse body: %w", domain.ErrMalformedResponse)}
}

// scriptedFetcher replays steps in order and records every query.
type scriptedFetcher struct {
	mu      sync.Mutex
	steps   []step
	queries []domain.PageQuery
}

func newScriptedFetcher(steps ...step) *scriptedFetcher {
	return &scriptedFetcher{steps: steps}
}

func (f *scriptedFetcher) Fetch(_ context.Context, q domain.PageQuery) (*domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if len(f.steps) == 0 {
		return nil, errors.New("unexpected request")
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.page, s.err
}

func (f *scriptedFetcher) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// stubFilterBuilder joins the values so tests can see what was bound.
type stubFilterBuilder struct {
	err error
}

func (b *stubFilterBuilder) BuildFilter(variable string, values []string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return variable + " in (" + strings.Join(values, ",") + ")", nil
}

// memOutput records written files.
type memOutput struct {
	files  map[string][]byte
	writes int
	err    error
}

func newMemOutput() *memOutput {
	return &memOutput{files: make(map[string][]byte)}
}

func (o *memOutput) Write(_ context.Context, name string, content []byte) error {
	if o.err != nil {
		return o.err
	}
	o.writes++
	o.files[name] = append([]byte(nil), content...)
	return nil
}

// statsCall is one recorded StatsRecorder call.
type statsCall struct {
	date   time.Time
	file   string
	counts []domain.CountEntry
}

// memStats records stats calls.
type memStats struct {
	calls []statsCall
	err   error
}

func (s *memStats) Record(_ context.Context, date time.Time, fileName string, counts *domain.Counts) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, statsCall{date: date, file: fileName, counts: counts.Entries()})
	return nil
}

// progressRecorder records observer callbacks.
type progressRecorder struct {
	pages []int
	rows  []int
	done  []error
}

func (p *progressRecorder) PageFetched(_, _ string, page, rows int) {
	p.pages = append(p.pages, page)
	p.rows = append(p.rows, rows)
}

func (p *progressRecorder) FetchDone(_, _ string, err error) {
	p.done = append(p.done, err)
}

// raw builds a raw row for the standard test columns: title, callcode, barcode, process_type.
func raw(title, callcode, barcode, processType string) domain.RawRow {
	return domain.RawRow{
		"Column0": "0",
		"Column1": title,
		"Column2": callcode,
		"Column3": barcode,
		"Column4": processType,
	}
}

func testReport(files ...domain.FileVariant) domain.ReportDefinition {
	if len(files) == 0 {
		files = []domain.FileVariant{{Name: "all.txt"}}
	}
	return domain.ReportDefinition{
		Path:     "/shared/Library/Reports/Missing",
		Variable: `"Location"."Location Code"`,
		SortBy:   domain.FieldCallCode,
		Format:   domain.MustParseTemplate("{callcode}\t{title}\t{barcode}"),
		Columns: domain.BindColumns([]string{
			domain.FieldTitle, domain.FieldCallCode, domain.FieldBarcode, domain.FieldProcessType,
		}),
		Files: files,
	}
}
