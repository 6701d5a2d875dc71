package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docdex/internal/config"
	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "docdex"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  *storage.Storage
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	settings *config.Settings
}

// NewServer creates an MCP server over already-wired pipeline components.
func NewServer(ix *indexer.Indexer, se *searcher.Searcher, st *storage.Storage, settings *config.Settings) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		storage:  st,
		indexer:  ix,
		searcher: se,
		settings: settings,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(ingestDocumentsTool(), s.handleIngestDocuments)
	s.mcp.AddTool(queryDocumentsTool(), s.handleQueryDocuments)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
}
