// Package storage persists documents and their chunks in SQLite and
// maintains the FTS5 full-text index used for relevance-ranked search.
//
// Three structures are kept mutually consistent by every write path:
//
//   - documents: one row per canonical path, carrying the content-derived
//     ID and staleness metadata (mtime, size, indexed_at)
//   - chunks: page-bounded text units owned by a document path
//   - chunks_fts: the FTS5 index over chunk text, with denormalised
//     display columns so search needs no join
//
// Replacing a document's chunks is a single transaction: delete the old
// set, upsert the document row, insert the new set, commit. A concurrent
// reader observes either the fully-old or fully-new chunk set.
//
// The connection pool is capped at one connection; SQLite is a single
// writer and this serialises commits across concurrent ingestion workers.
package storage
