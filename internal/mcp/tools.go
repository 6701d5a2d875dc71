package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
)

// maxReportedErrors caps how many per-file errors an ingest response
// carries; the full count is always reported.
const maxReportedErrors = 5

// handleIngestDocuments handles the ingest_documents tool invocation
func (s *Server) handleIngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	force := getBoolDefault(args, "force", false)
	recursive := getBoolDefault(args, "recursive", true)

	var (
		paths   []string
		rejects []indexer.FileError
	)
	if files := getStringSlice(args, "files"); len(files) > 0 {
		paths, rejects = indexer.FilterFiles(files)
	} else {
		dir := getStringDefault(args, "input_dir", s.settings.DocsDir)
		var err error
		paths, err = indexer.DiscoverPDFs(dir, recursive)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid input_dir", map[string]interface{}{
				"param":  "input_dir",
				"reason": err.Error(),
			})
		}
	}

	stats, err := s.indexer.IngestBatch(ctx, paths, force)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if stats.Indexed > 0 {
		s.searcher.InvalidateCache()
	}

	fileErrors := append(rejects, stats.Errors...)
	response := map[string]interface{}{
		"indexed":          stats.Indexed,
		"skipped":          stats.Skipped,
		"error_count":      len(fileErrors),
		"duration_ms":      stats.Duration.Milliseconds(),
		"storage_location": s.storage.Path(),
	}
	if len(fileErrors) > maxReportedErrors {
		response["errors"] = fileErrors[:maxReportedErrors]
	} else if len(fileErrors) > 0 {
		response["errors"] = fileErrors
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQueryDocuments handles the query_documents tool invocation
func (s *Server) handleQueryDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK := getIntDefault(args, "top_k", s.settings.TopK)
	snippetChars := getIntDefault(args, "snippet_chars", s.settings.SnippetChars)

	resp, err := s.searcher.Search(ctx, searcher.Request{
		Query:        query,
		TopK:         topK,
		SnippetChars: snippetChars,
	})
	if err != nil {
		if errors.Is(err, types.ErrEmptyQuery) {
			return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, map[string]interface{}{
			"doc_id":     r.DocID,
			"filename":   r.Filename,
			"path":       r.Path,
			"pages":      r.Pages(),
			"page_start": r.PageStart,
			"page_end":   r.PageEnd,
			"score":      r.Score,
			"snippet":    r.Snippet,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":         query,
		"total_results": resp.TotalResults,
		"duration_ms":   resp.Duration.Milliseconds(),
		"cache_hit":     resp.CacheHit,
		"results":       results,
	})), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 200
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		limit = getIntDefault(args, "limit", limit)
	}
	if limit <= 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be positive", map[string]interface{}{
			"param": "limit",
		})
	}

	docs, err := s.storage.ListDocuments(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "listing documents failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	entries := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		chunks, err := s.storage.CountChunks(ctx, d.Path)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "counting chunks failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		entries = append(entries, map[string]interface{}{
			"id":         d.ID,
			"filename":   d.Filename,
			"path":       d.Path,
			"size_bytes": d.SizeBytes,
			"indexed_at": d.IndexedAt,
			"chunks":     chunks,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"documents": entries,
		"total":     len(entries),
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value.
// JSON numbers decode as float64.
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
