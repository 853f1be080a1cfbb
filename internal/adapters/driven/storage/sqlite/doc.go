// Package sqlite provides a SQLite-backed implementation of driven.VectorStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each collection row records the
// embedding model, dimensions and fingerprint it was built with; records hold
// the chunk text, metadata and the embedding as a little-endian float32 blob.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Search
//
// Queries scan the collection in insertion order and rank by cosine distance.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, so queries can run while a collection is rebuilt.
package sqlite
