// Package memory provides in-memory implementations of the driven storage
// ports. Nothing is persisted; service tests use them in place of SQLite.
package memory
