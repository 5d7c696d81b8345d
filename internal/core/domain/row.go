package domain

import (
	"fmt"
	"unicode/utf8"
)

// Logical field names the extraction rules act on.
const (
	FieldTitle       = "title"
	FieldCallCode    = "callcode"
	FieldBarcode     = "barcode"
	FieldProcessType = "process_type"
)

const (
	// MaxTitleLength is the longest title kept as is, in characters.
	MaxTitleLength = 100

	// TruncatedTitleLength is how many characters of a long title are kept before the ellipsis.
	TruncatedTitleLength = 98

	// Ellipsis marks a truncated title.
	Ellipsis = "..."

	// UnknownCallCode is the placeholder the service uses for a missing call code.
	UnknownCallCode = "Unknown"

	// UnknownCallCodeMarker replaces UnknownCallCode in output.
	UnknownCallCodeMarker = "?"
)

// RawRow is one report row as returned by the service, keyed by positional
// column identifier (Column0, Column1, ...).
type RawRow map[string]string

// Row maps logical field names to their cleaned values.
type Row map[string]string

// ColumnBinding binds a positional column to a logical field name.
type ColumnBinding struct {
	Column string
	Field  string
}

// ColumnName returns the positional column identifier for the k-th configured field.
// Column0 is a row counter added by the service, so fields start at Column1.
func ColumnName(k int) string {
	return fmt.Sprintf("Column%d", k+1)
}

// BindColumns maps an ordered list of field names onto positional columns.
func BindColumns(fields []string) []ColumnBinding {
	bindings := make([]ColumnBinding, len(fields))
	for k, f := range fields {
		bindings[k] = ColumnBinding{Column: ColumnName(k), Field: f}
	}
	return bindings
}

// ExtractRow maps a raw row onto named fields and applies the cleanup rules.
// The second return value is false when the row must be discarded.
func ExtractRow(raw RawRow, columns []ColumnBinding) (Row, bool) {
	row := make(Row, len(columns))
	for _, c := range columns {
		row[c.Field] = raw[c.Column]
	}

	// Placeholder rows carry no barcode and must not reach the output.
	if row[FieldBarcode] == "" {
		return nil, false
	}

	if v, ok := row[FieldCallCode]; ok && v == UnknownCallCode {
		row[FieldCallCode] = UnknownCallCodeMarker
	}

	if v, ok := row[FieldTitle]; ok {
		row[FieldTitle] = TruncateTitle(v)
	}

	return row, true
}

// TruncateTitle shortens titles longer than MaxTitleLength characters.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:TruncatedTitleLength]) + Ellipsis
}
