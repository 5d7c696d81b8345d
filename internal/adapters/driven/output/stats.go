package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure StatsRecorder implements the interface.
var _ driven.StatsRecorder = (*StatsRecorder)(nil)

// DateLayout is the date format of the stats CSV.
const DateLayout = "2006-01-02"

// LogSuffix is appended to an output file name to form its log name.
const LogSuffix = ".log"

// statsHeader is written once, when the stats file is created.
var statsHeader = []string{"date", "filename", "category", "count"}

// StatsRecorder appends per category counts to the stats CSV and
// rewrites the per-file log next to each output file.
type StatsRecorder struct {
	mu        sync.Mutex
	dir       string
	statsFile string
}

// NewStatsRecorder creates a recorder for the stats file inside dir.
func NewStatsRecorder(dir, statsFile string) *StatsRecorder {
	if statsFile == "" {
		statsFile = domain.DefaultStatsFile
	}
	return &StatsRecorder{dir: dir, statsFile: statsFile}
}

// StatsPath returns the path of the stats CSV.
func (r *StatsRecorder) StatsPath() string {
	return filepath.Join(r.dir, r.statsFile)
}

// LogPath returns the path of the log for an output file.
func (r *StatsRecorder) LogPath(fileName string) string {
	return filepath.Join(r.dir, fileName+LogSuffix)
}

// Record appends one row per category to the stats CSV and rewrites
// the log of fileName. Categories are written in first-seen order.
func (r *StatsRecorder) Record(ctx context.Context, date time.Time, fileName string, counts *domain.Counts) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries := counts.Entries()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.appendStats(date.Format(DateLayout), fileName, entries); err != nil {
		return fmt.Errorf("append stats: %w", err)
	}
	if err := writeAtomic(r.LogPath(fileName), formatLog(entries)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func (r *StatsRecorder) appendStats(date, fileName string, entries []domain.CountEntry) (err error) {
	path := r.StatsPath()

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(statsHeader); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := w.Write([]string{date, fileName, e.Category, strconv.Itoa(e.Count)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatLog renders the per-file log: one " - category: count" line per
// category, CRLF terminated.
func formatLog(entries []domain.CountEntry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, " - %s: %d\r\n", e.Category, e.Count)
	}
	return buf.Bytes()
}
