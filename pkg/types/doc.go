// Package types defines the shared data model for the docdex indexing
// pipeline: documents, their page-bounded chunks, and search results.
//
// Document identity is content-addressed: the ID is the hex SHA-256 of the
// file bytes and changes whenever the content changes. Chunk identity is
// ingestion-local (random), since chunks are replaced wholesale whenever
// their document is reindexed.
package types
