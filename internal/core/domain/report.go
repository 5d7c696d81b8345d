package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ReportDefinition describes one analytics report and the files it feeds.
// It is immutable once loaded.
type ReportDefinition struct {
	// Path is the server-side report path.
	Path string

	// Variable is the report column bound by variant filters, e.g. "Location"."Location Code".
	Variable string

	// SortBy names the field output lines are ordered by.
	SortBy string

	// Format renders one output line.
	Format *LineTemplate

	// Columns maps positional columns to logical fields, in configured order.
	Columns []ColumnBinding

	// Files are the output variants, processed in order.
	Files []FileVariant
}

// FileVariant is one output file, optionally scoped to a set of values.
type FileVariant struct {
	// Name is the output file name relative to the destination directory.
	Name string

	// Values restricts the report to rows whose Variable is one of these.
	// Empty means the report is fetched unfiltered.
	Values []string
}

// Filtered returns true if the variant restricts the report.
func (v FileVariant) Filtered() bool {
	return len(v.Values) > 0
}

// Fields returns the logical field names in column order.
func (r *ReportDefinition) Fields() []string {
	fields := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		fields[i] = c.Field
	}
	return fields
}

// HasField returns true if the report extracts the named field.
func (r *ReportDefinition) HasField(name string) bool {
	return slices.Contains(r.Fields(), name)
}

// Validate checks the definition is complete and self-consistent.
func (r *ReportDefinition) Validate() error {
	var errs []error
	if r.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}
	if len(r.Columns) == 0 {
		errs = append(errs, errors.New("at least one field is required"))
	}

	seen := make(map[string]bool, len(r.Columns))
	for _, c := range r.Columns {
		if c.Field == "" {
			errs = append(errs, fmt.Errorf("column %s has no field name", c.Column))
			continue
		}
		if seen[c.Field] {
			errs = append(errs, fmt.Errorf("field %q listed twice", c.Field))
		}
		seen[c.Field] = true
	}
	for _, required := range []string{FieldBarcode, FieldProcessType} {
		if len(r.Columns) > 0 && !seen[required] {
			errs = append(errs, fmt.Errorf("field %q is required", required))
		}
	}

	if r.SortBy == "" {
		errs = append(errs, errors.New("sort_by is required"))
	} else if len(r.Columns) > 0 && !seen[r.SortBy] {
		errs = append(errs, fmt.Errorf("sort_by %q is not a configured field", r.SortBy))
	}

	if r.Format == nil {
		errs = append(errs, errors.New("format is required"))
	} else {
		for _, f := range r.Format.Fields() {
			if !seen[f] {
				errs = append(errs, fmt.Errorf("format references unknown field %q", f))
			}
		}
	}

	if len(r.Files) == 0 {
		errs = append(errs, errors.New("at least one file is required"))
	}
	for _, v := range r.Files {
		if err := ValidateFileName(v.Name); err != nil {
			errs = append(errs, err)
		}
		if v.Filtered() && r.Variable == "" {
			errs = append(errs, fmt.Errorf("file %q has filter values but the report has no variable", v.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: report %q: %w", ErrInvalidConfig, r.Path, errors.Join(errs...))
	}
	return nil
}

// ValidateFileName rejects names that would escape the destination directory.
func ValidateFileName(name string) error {
	switch {
	case name == "":
		return errors.New("file name is required")
	case name == "." || name == "..":
		return fmt.Errorf("file name %q is not allowed", name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("file name %q must not contain a path separator", name)
	}
	return nil
}
