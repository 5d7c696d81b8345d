package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

func TestOutputFormatter_SortsByKey(t *testing.T) {
	rows := []domain.Row{
		{"callcode": "b", "title": "second"},
		{"callcode": "a", "title": "first"},
		{"callcode": "c", "title": "third"},
	}
	tmpl := domain.MustParseTemplate("{callcode} {title}")

	got := string(NewOutputFormatter().Format(rows, "callcode", tmpl))

	want := "a first\r\nb second\r\nc third\r\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputFormatter_StableForTies(t *testing.T) {
	rows := []domain.Row{
		{"k": "b", "n": "1"},
		{"k": "a", "n": "2"},
		{"k": "b", "n": "3"},
		{"k": "a", "n": "4"},
		{"k": "b", "n": "5"},
	}
	tmpl := domain.MustParseTemplate("{k}{n}")

	got := string(NewOutputFormatter().Format(rows, "k", tmpl))

	assert.Equal(t, "a2\r\na4\r\nb1\r\nb3\r\nb5\r\n", got)
}

func TestOutputFormatter_Idempotent(t *testing.T) {
	rows := []domain.Row{
		{"k": "zz", "v": "æ"},
		{"k": "Zz", "v": "b"},
		{"k": "", "v": "c"},
		{"k": "ø", "v": "d"},
	}
	tmpl := domain.MustParseTemplate("{k:<3}|{v}")
	f := NewOutputFormatter()

	first := f.Format(rows, "k", tmpl)
	second := f.Format(rows, "k", tmpl)

	assert.Equal(t, first, second)
	// Byte order: "" < "Zz" < "zz" < "ø".
	assert.Equal(t, "   |c\r\nZz |b\r\nzz |æ\r\nø  |d\r\n", string(first))
}

func TestOutputFormatter_DoesNotReorderInput(t *testing.T) {
	rows := []domain.Row{{"k": "b"}, {"k": "a"}}

	NewOutputFormatter().Format(rows, "k", domain.MustParseTemplate("{k}"))

	assert.Equal(t, "b", rows[0]["k"])
	assert.Equal(t, "a", rows[1]["k"])
}

func TestOutputFormatter_Empty(t *testing.T) {
	got := NewOutputFormatter().Format(nil, "k", domain.MustParseTemplate("{k}"))
	assert.Empty(t, got)
}
