// Package sqlite provides a SQLite-based implementation of the
// MemoryStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists two
// append-only tables through a single database connection:
//
//   - interactions: the long-term conversational memory
//   - query_log: every query with its best retrieval score
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.crescentbot/data/memory.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
