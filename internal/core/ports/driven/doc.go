// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageFetcher: Fetches one page of an analytics report
//   - FilterBuilder: Renders the vendor filter expression for a file variant
//   - OutputStore: Atomically replaces output files
//   - StatsRecorder: Appends run statistics and rewrites per-file logs
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunHistoryStore: Persists run outcomes. Without it, history is not kept.
//   - ProgressObserver: Receives page progress. Without it, nothing is shown.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
