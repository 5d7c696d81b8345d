package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure progressPrinter implements the interface.
var _ driven.ProgressObserver = (*progressPrinter)(nil)

// progressPrinter shows a single live progress line per fetch.
// Nothing is printed unless live is set.
type progressPrinter struct {
	mu     sync.Mutex
	out    io.Writer
	live   bool
	active bool
}

// newProgressPrinter creates a printer that is live only when out is a terminal.
func newProgressPrinter(out io.Writer, enabled bool) *progressPrinter {
	return &progressPrinter{out: out, live: enabled && isTerminal(out)}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PageFetched rewrites the progress line.
func (p *progressPrinter) PageFetched(_, fileName string, page, rows int) {
	if !p.live {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\r\033[K%s  %s",
		fileName,
		styles.Muted.Render(fmt.Sprintf("page %d, %s rows", page, humanize.Comma(int64(rows)))))
	p.active = true
}

// FetchDone clears the progress line.
func (p *progressPrinter) FetchDone(_, _ string, _ error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		fmt.Fprint(p.out, "\r\033[K")
		p.active = false
	}
}
