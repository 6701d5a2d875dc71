package types

import "time"

// Document represents one indexed PDF file.
type Document struct {
	// ID is the content-addressed identifier: the hex SHA-256 of the file
	// bytes. Stable across re-ingestion only while the bytes are unchanged.
	ID string

	// Path is the canonical absolute filesystem path. It is the external
	// key: at most one Document exists per path.
	Path string

	// Filename is the base name of the file, kept for display.
	Filename string

	// ContentHash is the hex SHA-256 digest of the full file bytes.
	// ID is defined as ContentHash.
	ContentHash string

	// MtimeNS is the file modification time in Unix nanoseconds at the
	// moment of indexing. Compared exactly (no tolerance) by the change
	// detector.
	MtimeNS int64

	// SizeBytes is the file size at the moment of indexing.
	SizeBytes int64

	// IndexedAt is when the document was last successfully (re)indexed.
	IndexedAt time.Time
}

// Chunk is a contiguous, page-bounded slice of a document's extracted text,
// the atomic unit of retrieval.
type Chunk struct {
	// ID is a random identifier assigned at ingestion time.
	ID string

	// DocumentID is the owning document's content-addressed ID.
	DocumentID string

	// DocumentPath is the owning document's canonical path. Ownership is
	// keyed by path: two byte-identical files under different paths share
	// a DocumentID but never share chunks.
	DocumentPath string

	// PageStart and PageEnd are the inclusive 1-based page range covered.
	PageStart int
	PageEnd   int

	// Text is the normalised, concatenated page text for the range.
	Text string
}

// SearchResult is one ranked hit from a full-text query.
type SearchResult struct {
	DocID     string
	Filename  string
	Path      string
	PageStart int
	PageEnd   int

	// Score is the engine's relevance signal. FTS5 bm25 scores are
	// lower-is-better; results are always ordered best first regardless.
	Score float64

	// Snippet is a bounded excerpt with highlight markers around matched
	// terms and an ellipsis marker for elided context.
	Snippet string
}

// Pages expands the inclusive page range into the full list of covered page
// numbers for display.
func (r SearchResult) Pages() []int {
	if r.PageEnd < r.PageStart {
		return nil
	}
	pages := make([]int, 0, r.PageEnd-r.PageStart+1)
	for p := r.PageStart; p <= r.PageEnd; p++ {
		pages = append(pages, p)
	}
	return pages
}
