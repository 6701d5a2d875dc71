// Package indexer drives the ingestion pipeline: discover PDF files,
// detect changes against the stored metadata, extract and chunk the
// changed ones in parallel, and commit each document atomically.
//
// Failures are per-file: one corrupt PDF is recorded in the batch stats
// and never aborts the rest of the batch.
package indexer
