// Package searcher fronts the full-text index with request validation,
// parameter clamping and a TTL-bounded LRU query cache. The cache is
// purged after every ingestion batch so stale hits never outlive a
// reindex.
package searcher
