// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements the following store
// interfaces through a single database connection:
//
//   - IgnoredResultStore: Results the user chose to ignore, per manuscript
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Ignored results are stored as their JSON wire form, so records survive
// additions to the result payloads.
//
// # Data Location
//
// By default, the database is stored at ~/.manuscript-validator/data/validator.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
