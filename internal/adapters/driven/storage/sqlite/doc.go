// Package sqlite provides a SQLite-based implementation of driven.KVStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every document (drawing caches,
// discipline maps, favorites, recents, preferences) is one row of the kv table.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.plantap/data/plantap.db
//
// # Thread Safety
//
// All operations are thread-safe. Multi-key writes run in one transaction and
// SQLite runs in WAL mode, so the proxy and the CLI can share the file.
package sqlite
