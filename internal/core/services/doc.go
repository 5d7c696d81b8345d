// Package services implements the core business logic for almalister.
//
// Services implement the driving port interfaces and orchestrate
// calls to driven port interfaces. They contain no infrastructure
// code - all I/O is delegated to adapters through ports.
//
// # Available Services
//
//   - ReportCollector: Drives the resumption-token loop of one report fetch
//   - OutputFormatter: Sorts buffered rows and renders output lines
//   - ReportRunner: Runs every report and file variant, with retries
//   - RunHistoryService: Lists past runs
//
// # Dependency Injection
//
// Services receive their dependencies via constructor injection.
// Optional dependencies (history, progress) may be nil.
package services
