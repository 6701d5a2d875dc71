package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/pkg/types"
)

// defaultDocsLimit bounds GET /docs when no limit is given.
const defaultDocsLimit = 200

type ingestRequest struct {
	// InputDir is scanned for PDFs. Defaults to the configured docs
	// directory when both InputDir and Files are empty.
	InputDir string `json:"input_dir"`

	// Files is an explicit file list; when present InputDir is ignored.
	Files []string `json:"files"`

	// Recursive controls directory scanning depth. Defaults to true.
	Recursive *bool `json:"recursive"`

	// Force reingests files even when unchanged.
	Force bool `json:"force"`
}

type ingestResponse struct {
	Indexed         int                 `json:"indexed"`
	Skipped         int                 `json:"skipped"`
	Errors          []indexer.FileError `json:"errors"`
	DurationMS      int64               `json:"duration_ms"`
	StorageLocation string              `json:"storage_location"`
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var (
		paths   []string
		rejects []indexer.FileError
	)
	if len(req.Files) > 0 {
		paths, rejects = indexer.FilterFiles(req.Files)
	} else {
		dir := req.InputDir
		if dir == "" {
			dir = s.settings.DocsDir
		}
		recursive := true
		if req.Recursive != nil {
			recursive = *req.Recursive
		}
		var err error
		paths, err = indexer.DiscoverPDFs(dir, recursive)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	stats, err := s.indexer.IngestBatch(c.Request.Context(), paths, req.Force)
	if err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if stats.Indexed > 0 {
		s.searcher.InvalidateCache()
	}

	allErrors := append(rejects, stats.Errors...)
	if allErrors == nil {
		allErrors = []indexer.FileError{}
	}

	c.JSON(http.StatusOK, ingestResponse{
		Indexed:         stats.Indexed,
		Skipped:         stats.Skipped,
		Errors:          allErrors,
		DurationMS:      stats.Duration.Milliseconds(),
		StorageLocation: s.storage.Path(),
	})
}

type queryRequest struct {
	Query        string `json:"query"`
	TopK         int    `json:"top_k"`
	SnippetChars int    `json:"snippet_chars"`
}

type queryResult struct {
	DocID     string  `json:"doc_id"`
	Filename  string  `json:"filename"`
	Path      string  `json:"path"`
	Pages     []int   `json:"pages"`
	PageStart int     `json:"page_start"`
	PageEnd   int     `json:"page_end"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

type queryResponse struct {
	Query        string        `json:"query"`
	TopK         int           `json:"top_k"`
	Results      []queryResult `json:"results"`
	TotalResults int           `json:"total_results"`
	DurationMS   int64         `json:"duration_ms"`
	CacheHit     bool          `json:"cache_hit"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.settings.TopK
	}
	snippetChars := req.SnippetChars
	if snippetChars <= 0 {
		snippetChars = s.settings.SnippetChars
	}

	resp, err := s.searcher.Search(c.Request.Context(), searcher.Request{
		Query:        req.Query,
		TopK:         topK,
		SnippetChars: snippetChars,
	})
	if err != nil {
		if errors.Is(err, types.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]queryResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, queryResult{
			DocID:     r.DocID,
			Filename:  r.Filename,
			Path:      r.Path,
			Pages:     r.Pages(),
			PageStart: r.PageStart,
			PageEnd:   r.PageEnd,
			Score:     r.Score,
			Snippet:   r.Snippet,
		})
	}

	c.JSON(http.StatusOK, queryResponse{
		Query:        req.Query,
		TopK:         topK,
		Results:      results,
		TotalResults: resp.TotalResults,
		DurationMS:   resp.Duration.Milliseconds(),
		CacheHit:     resp.CacheHit,
	})
}

type docEntry struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	IndexedAt time.Time `json:"indexed_at"`
	Chunks    int       `json:"chunks"`
}

func (s *Server) handleListDocs(c *gin.Context) {
	limit := defaultDocsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	docs, err := s.storage.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("listing documents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]docEntry, 0, len(docs))
	for _, d := range docs {
		chunks, err := s.storage.CountChunks(c.Request.Context(), d.Path)
		if err != nil {
			s.logger.Error("counting chunks failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		entries = append(entries, docEntry{
			ID:        d.ID,
			Filename:  d.Filename,
			Path:      d.Path,
			SizeBytes: d.SizeBytes,
			IndexedAt: d.IndexedAt,
			Chunks:    chunks,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": entries,
		"total":     len(entries),
	})
}
