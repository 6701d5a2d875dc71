// Package mcp exposes the document index over the Model Context Protocol
// so AI assistants can ingest and query PDF corpora directly.
//
// Three tools are registered:
//   - ingest_documents: scan a directory or file list and (re)index PDFs
//   - query_documents: full-text search over indexed chunks
//   - list_documents: inventory of indexed documents
//
// MCP is JSON-RPC 2.0 over stdio: stdout carries protocol messages, so
// all logging in this mode must go to stderr.
//
// Errors follow JSON-RPC conventions:
//   - -32602: invalid params (missing/invalid arguments)
//   - -32603: internal error (extraction, database)
//   - -32004: empty query
package mcp
