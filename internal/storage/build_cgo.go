//go:build cgosqlite

package storage

// This file is compiled when building with CGO and the cgosqlite tag. The C
// implementation is faster for large corpora; the fts5 tag is required so
// the driver links the FTS5 extension.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgosqlite,fts5" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
