// Package sqlite implements driven.CacheStore on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It stores the same header lines and
// positional records as the text cache, so either backend can serve a run.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.repostat/cache.db
//
// # Atomicity
//
// Save replaces header and records inside one transaction.
package sqlite
