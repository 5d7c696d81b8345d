package services

import (
	"bytes"
	"slices"
	"strings"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// LineTerminator ends every output line.
const LineTerminator = "\r\n"

// OutputFormatter renders buffered rows into output file content.
type OutputFormatter struct{}

// NewOutputFormatter creates a formatter.
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// Format sorts rows by the sortBy field and renders each through tmpl.
// The sort is stable, so rows with equal keys keep their arrival order.
// rows is not modified.
func (f *OutputFormatter) Format(rows []domain.Row, sortBy string, tmpl *domain.LineTemplate) []byte {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.Row) int {
		return strings.Compare(a[sortBy], b[sortBy])
	})

	var buf bytes.Buffer
	for _, row := range sorted {
		buf.WriteString(tmpl.Render(row))
		buf.WriteString(LineTerminator)
	}
	return buf.Bytes()
}
