// Package domain defines the core business entities for almalister.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ReportDefinition: An analytics report and the files it feeds
//   - FileVariant: One output file, optionally scoped by filter values
//   - Row: The named fields extracted from one report row
//   - Counts: Per process type tallies for one report fetch
//   - PageQuery / Page: One request/response step of the resumption loop
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
