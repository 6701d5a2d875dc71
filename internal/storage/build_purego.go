//go:build !cgosqlite

package storage

// This file is compiled by default (CGO not required). It uses the pure Go
// SQLite implementation, which ships FTS5 support out of the box.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
