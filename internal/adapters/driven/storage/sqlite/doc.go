// Package sqlite provides a SQLite-based implementation of the run history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are tracked in schema_migrations.
//
// # Data Location
//
// The database path comes from the history_db setting. When it is empty no
// history is kept.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
