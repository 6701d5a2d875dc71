package indexer

import "github.com/dshills/docdex/pkg/types"

// shouldReindex decides whether a file needs (re)ingestion. A file is
// unchanged only when both mtime (nanosecond precision, exact equality)
// and size match the stored metadata; any difference, an unknown path,
// or force triggers reingestion.
func shouldReindex(existing *types.Document, mtimeNS, sizeBytes int64, force bool) bool {
	if force {
		return true
	}
	if existing == nil {
		return true
	}
	return existing.MtimeNS != mtimeNS || existing.SizeBytes != sizeBytes
}
