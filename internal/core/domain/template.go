package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// LineTemplate renders a Row into one output line.
//
// The syntax is the brace format used by the report configuration files:
// {field} substitutes a field, {{ and }} produce literal braces, and
// {field:[[fill]align][width][.precision]} pads or cuts the value.
// Align is one of <, > or ^. Widths count characters, not bytes.
type LineTemplate struct {
	source string
	parts  []templatePart
}

type templatePart struct {
	literal string
	field   string
	spec    fieldSpec
	isField bool
}

type fieldSpec struct {
	fill      rune
	align     byte
	width     int
	precision int // -1 when unset
}

// ParseTemplate compiles a line template.
func ParseTemplate(src string) (*LineTemplate, error) {
	t := &LineTemplate{source: src}
	var lit strings.Builder

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '}':
			return nil, fmt.Errorf("%w: single '}' at offset %d in template %q", ErrInvalidConfig, i, src)
		case c == '{':
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d in template %q", ErrInvalidConfig, i, src)
			}
			part, err := parsePlaceholder(src[i+1 : i+1+end])
			if err != nil {
				return nil, fmt.Errorf("%w: template %q: %w", ErrInvalidConfig, src, err)
			}
			if lit.Len() > 0 {
				t.parts = append(t.parts, templatePart{literal: lit.String()})
				lit.Reset()
			}
			t.parts = append(t.parts, part)
			i += end + 2
		default:
			lit.WriteByte(c)
			i++
		}
	}
	if lit.Len() > 0 {
		t.parts = append(t.parts, templatePart{literal: lit.String()})
	}
	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error. For tests and constants.
func MustParseTemplate(src string) *LineTemplate {
	t, err := ParseTemplate(src)
	if err != nil {
		panic(err)
	}
	return t
}

func parsePlaceholder(body string) (templatePart, error) {
	name, spec, hasSpec := strings.Cut(body, ":")
	if name == "" {
		return templatePart{}, fmt.Errorf("empty placeholder")
	}
	if strings.ContainsAny(name, "{!.[") {
		return templatePart{}, fmt.Errorf("unsupported placeholder %q", body)
	}
	part := templatePart{field: name, isField: true, spec: fieldSpec{fill: ' ', precision: -1}}
	if !hasSpec || spec == "" {
		return part, nil
	}
	fs, err := parseFieldSpec(spec)
	if err != nil {
		return templatePart{}, fmt.Errorf("placeholder %q: %w", name, err)
	}
	part.spec = fs
	return part, nil
}

func parseFieldSpec(spec string) (fieldSpec, error) {
	fs := fieldSpec{fill: ' ', precision: -1}
	rest := spec

	if r, size := utf8.DecodeRuneInString(rest); size < len(rest) && isAlign(rest[size]) {
		fs.fill = r
		fs.align = rest[size]
		rest = rest[size+1:]
	} else if len(rest) > 0 && isAlign(rest[0]) {
		fs.align = rest[0]
		rest = rest[1:]
	}

	digits := leadingDigits(rest)
	if digits != "" {
		fs.width, _ = strconv.Atoi(digits)
		rest = rest[len(digits):]
	}

	if strings.HasPrefix(rest, ".") {
		digits = leadingDigits(rest[1:])
		if digits == "" {
			return fs, fmt.Errorf("format spec %q: precision without digits", spec)
		}
		fs.precision, _ = strconv.Atoi(digits)
		rest = rest[1+len(digits):]
	}

	if rest == "s" {
		rest = ""
	}
	if rest != "" {
		return fs, fmt.Errorf("unsupported format spec %q", spec)
	}
	return fs, nil
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^'
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// Fields returns the field names referenced by the template, in order of appearance.
func (t *LineTemplate) Fields() []string {
	var fields []string
	for _, p := range t.parts {
		if p.isField {
			fields = append(fields, p.field)
		}
	}
	return fields
}

// String returns the template source.
func (t *LineTemplate) String() string {
	return t.source
}

// Render substitutes the row's fields. Missing fields render as empty strings.
func (t *LineTemplate) Render(row Row) string {
	var b strings.Builder
	for _, p := range t.parts {
		if !p.isField {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(p.spec.apply(row[p.field]))
	}
	return b.String()
}

func (fs fieldSpec) apply(v string) string {
	if fs.precision >= 0 && utf8.RuneCountInString(v) > fs.precision {
		v = string([]rune(v)[:fs.precision])
	}
	n := utf8.RuneCountInString(v)
	if n >= fs.width {
		return v
	}
	pad := fs.width - n
	fill := string(fs.fill)
	switch fs.align {
	case '>':
		return strings.Repeat(fill, pad) + v
	case '^':
		left := pad / 2
		return strings.Repeat(fill, left) + v + strings.Repeat(fill, pad-left)
	default:
		return v + strings.Repeat(fill, pad)
	}
}
