// Package httpapi exposes the ingestion and query pipeline over HTTP.
//
// Endpoints:
//
//	GET  /        service metadata and endpoint map
//	GET  /health  liveness probe
//	GET  /docs    indexed document inventory
//	POST /ingest  scan and (re)index PDF files
//	POST /query   full-text search over indexed chunks
package httpapi
