package storage

import (
	"context"
	"fmt"

	"github.com/dshills/docdex/pkg/types"
)

// Snippet markers handed to FTS5's snippet() function.
const (
	snippetMarkStart = "["
	snippetMarkEnd   = "]"
	snippetEllipsis  = "…"
)

// ftsTextColumn is the position of the indexed text column in chunks_fts.
const ftsTextColumn = 6

// SearchChunks runs a full-text query against the chunk index and returns
// up to topK results ordered best first. FTS5 bm25 scores are
// lower-is-better, so ascending score order is best-first. snippetTokens
// is the FTS5 snippet token budget (the engine caps it at 64).
//
// The query string is passed to MATCH unmodified: FTS5 phrase ("...") and
// boolean syntax is part of the search contract. A syntactically invalid
// query surfaces as an error.
func (s *Storage) SearchChunks(ctx context.Context, query string, topK, snippetTokens int) ([]types.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			document_id,
			filename,
			path,
			page_start,
			page_end,
			bm25(chunks_fts) AS score,
			snippet(chunks_fts, %d, ?, ?, ?, ?) AS snippet
		FROM chunks_fts
		WHERE chunks_fts MATCH ?
		ORDER BY score
		LIMIT ?
	`, ftsTextColumn), snippetMarkStart, snippetMarkEnd, snippetEllipsis, snippetTokens, query, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []types.SearchResult
	for rows.Next() {
		var r types.SearchResult
		if err := rows.Scan(&r.DocID, &r.Filename, &r.Path,
			&r.PageStart, &r.PageEnd, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return results, nil
}
