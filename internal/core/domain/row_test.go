package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = BindColumns([]string{FieldTitle, FieldCallCode, FieldBarcode, FieldProcessType})

// TestBindColumns tests that fields start at Column1
func TestBindColumns(t *testing.T) {
	cols := BindColumns([]string{"a", "b"})

	require.Len(t, cols, 2)
	assert.Equal(t, ColumnBinding{Column: "Column1", Field: "a"}, cols[0])
	assert.Equal(t, ColumnBinding{Column: "Column2", Field: "b"}, cols[1])
}

// TestExtractRow_AllFields tests a complete row
func TestExtractRow_AllFields(t *testing.T) {
	raw := RawRow{
		"Column0": "0",
		"Column1": "Moby Dick",
		"Column2": "813 Mel",
		"Column3": "1234567",
		"Column4": "Loan",
	}

	row, ok := ExtractRow(raw, testColumns)

	require.True(t, ok)
	assert.Equal(t, Row{
		FieldTitle:       "Moby Dick",
		FieldCallCode:    "813 Mel",
		FieldBarcode:     "1234567",
		FieldProcessType: "Loan",
	}, row)
}

// TestExtractRow_MissingColumnsDefaultEmpty tests absent columns become empty strings
func TestExtractRow_MissingColumnsDefaultEmpty(t *testing.T) {
	row, ok := ExtractRow(RawRow{"Column3": "1234567"}, testColumns)

	require.True(t, ok)
	assert.Equal(t, "", row[FieldTitle])
	assert.Equal(t, "", row[FieldCallCode])
	assert.Equal(t, "", row[FieldProcessType])
	assert.Len(t, row, 4)
}

// TestExtractRow_RejectsEmptyBarcode tests rows without barcode are discarded
func TestExtractRow_RejectsEmptyBarcode(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRow
	}{
		{"missing column", RawRow{"Column1": "Title", "Column4": "Loan"}},
		{"empty column", RawRow{"Column1": "Title", "Column3": "", "Column4": "Loan"}},
		{"empty row", RawRow{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := ExtractRow(tt.raw, testColumns)
			assert.False(t, ok)
			assert.Nil(t, row)
		})
	}
}

// TestExtractRow_UnknownCallCode tests call code normalisation
func TestExtractRow_UnknownCallCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Unknown", "?"},
		{"unknown", "unknown"},
		{"Unknown ", "Unknown "},
		{"", ""},
		{"823 Dic", "823 Dic"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			row, ok := ExtractRow(RawRow{"Column2": tt.in, "Column3": "1"}, testColumns)
			require.True(t, ok)
			assert.Equal(t, tt.want, row[FieldCallCode])
		})
	}
}

// TestExtractRow_LongTitle tests title truncation
func TestExtractRow_LongTitle(t *testing.T) {
	long := strings.Repeat("a", 150)

	row, ok := ExtractRow(RawRow{"Column1": long, "Column3": "1"}, testColumns)

	require.True(t, ok)
	assert.Len(t, row[FieldTitle], 101)
	assert.Equal(t, long[:98]+"...", row[FieldTitle])
}

// TestExtractRow_FieldsNotConfigured tests rules skip fields the report does not extract
func TestExtractRow_FieldsNotConfigured(t *testing.T) {
	cols := BindColumns([]string{FieldBarcode, FieldProcessType, "note"})

	row, ok := ExtractRow(RawRow{"Column1": "1", "Column2": "Loan", "Column3": "Unknown"}, cols)

	require.True(t, ok)
	assert.Equal(t, "Unknown", row["note"])
	_, hasTitle := row[FieldTitle]
	assert.False(t, hasTitle)
}

// TestTruncateTitle tests the length boundaries
func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{"short", 10, 10},
		{"exactly 100", 100, 100},
		{"101", 101, 101},
		{"much longer", 500, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.Repeat("x", tt.length)
			got := TruncateTitle(in)
			assert.Equal(t, tt.wantLen, utf8.RuneCountInString(got))
			if tt.length > MaxTitleLength {
				assert.True(t, strings.HasPrefix(got, in[:TruncatedTitleLength]))
				assert.True(t, strings.HasSuffix(got, Ellipsis))
			} else {
				assert.Equal(t, in, got)
			}
		})
	}
}

// TestTruncateTitle_CountsCharacters tests multi-byte titles are cut on character boundaries
func TestTruncateTitle_CountsCharacters(t *testing.T) {
	in := strings.Repeat("ø", 100)
	assert.Equal(t, in, TruncateTitle(in))

	in = strings.Repeat("ø", 120)
	got := TruncateTitle(in)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ø", 98)+"...", got)
}
