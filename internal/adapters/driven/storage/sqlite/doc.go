// Package sqlite provides a persistent embedding cache backed by SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// Vectors are stored as little-endian float32 blobs keyed by (model, digest),
// where digest is the SHA-256 of the embedded text. Entries from different
// embedding models never collide.
//
// # Data Location
//
// By default, the database is stored at ~/.catmatch/cache/embeddings.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
