// Package sqlite provides a SQLite-based implementation of the driven store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database connection backs two interfaces:
//
//   - LineStore: the script line corpus and its embeddings
//   - SchedulerStore: periodic task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Vectors
//
// Embeddings are stored as little-endian float32 BLOBs. A NULL embedding marks
// a line the backfill job has not reached yet.
//
// # Data Location
//
// By default, the database is stored at ~/.quotebank/data/quotebank.db
package sqlite
