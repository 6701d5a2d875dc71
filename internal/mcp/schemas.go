package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestDocumentsTool returns the tool definition for ingest_documents
func ingestDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_documents",
		Description: "Scan a directory or explicit file list and index PDF documents for full-text search. Unchanged files are skipped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"input_dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory to scan for PDF files. Defaults to the configured docs directory.",
				},
				"files": map[string]interface{}{
					"type":        "array",
					"description": "Explicit PDF file paths to ingest. When present, input_dir is ignored.",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, scan subdirectories as well",
					"default":     true,
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, reindex files even when unchanged",
					"default":     false,
				},
			},
		},
	}
}

// queryDocumentsTool returns the tool definition for query_documents
func queryDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_documents",
		Description: "Full-text search over indexed PDF chunks. Supports FTS5 phrase (\"exact phrase\") and boolean (AND/OR/NOT) syntax. Results come back best first with highlighted snippets and page numbers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (keywords, quoted phrases, or boolean expressions)",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     5,
					"minimum":     1,
					"maximum":     100,
				},
				"snippet_chars": map[string]interface{}{
					"type":        "integer",
					"description": "Approximate snippet length in characters",
					"default":     800,
				},
			},
			Required: []string{"query"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List indexed documents with their chunk counts, most recently indexed first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of documents to return",
					"default":     200,
				},
			},
		},
	}
}
