package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLineTemplate_Render tests placeholder substitution
func TestLineTemplate_Render(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		row  Row
		want string
	}{
		{"plain", "{callcode}\t{title}", Row{"callcode": "813", "title": "Moby"}, "813\tMoby"},
		{"literal only", "header", Row{}, "header"},
		{"escaped braces", "{{{barcode}}}", Row{"barcode": "42"}, "{42}"},
		{"missing field renders empty", "[{nope}]", Row{}, "[]"},
		{"repeated field", "{a}-{a}", Row{"a": "x"}, "x-x"},
		{"left pad", "{a:<5}|", Row{"a": "ab"}, "ab   |"},
		{"right align", "{a:>5}", Row{"a": "ab"}, "   ab"},
		{"center", "{a:^6}", Row{"a": "ab"}, "  ab  "},
		{"center odd", "{a:^5}", Row{"a": "ab"}, " ab  "},
		{"custom fill", "{a:*>4}", Row{"a": "1"}, "***1"},
		{"default align is left", "{a:4}", Row{"a": "1"}, "1   "},
		{"precision", "{a:.3}", Row{"a": "abcdef"}, "abc"},
		{"width and precision", "{a:>5.2}", Row{"a": "abcdef"}, "   ab"},
		{"string type", "{a:s}", Row{"a": "v"}, "v"},
		{"width shorter than value", "{a:2}", Row{"a": "abcdef"}, "abcdef"},
		{"multibyte width", "{a:<4}|", Row{"a": "æø"}, "æø  |"},
		{"multibyte fill", "{a:·^5}", Row{"a": "x"}, "··x··"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.tmpl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tmpl.Render(tt.row))
		})
	}
}

// TestLineTemplate_Fields tests referenced field discovery
func TestLineTemplate_Fields(t *testing.T) {
	tmpl := MustParseTemplate("{callcode:<10} {title} {{literal}} {barcode}")

	assert.Equal(t, []string{"callcode", "title", "barcode"}, tmpl.Fields())
	assert.Equal(t, "{callcode:<10} {title} {{literal}} {barcode}", tmpl.String())
}

// TestParseTemplate_Errors tests malformed templates are rejected
func TestParseTemplate_Errors(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
	}{
		{"unclosed", "{title"},
		{"stray close", "title}"},
		{"empty placeholder", "{}"},
		{"conversion", "{title!r}"},
		{"attribute", "{title.upper}"},
		{"index", "{title[0]}"},
		{"numeric type", "{title:d}"},
		{"sign", "{title:+5}"},
		{"dangling precision", "{title:.}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTemplate(tt.tmpl)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

// TestMustParseTemplate_Panics tests MustParseTemplate panics on invalid input
func TestMustParseTemplate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseTemplate("{") })
}
