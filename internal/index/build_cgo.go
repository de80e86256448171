//go:build cgo_sqlite
// +build cgo_sqlite

package index

// Compiled with the cgo_sqlite tag. Uses github.com/mattn/go-sqlite3, the C
// implementation, which is noticeably faster on large indexes.
//
// Build command:
//   CGO_ENABLED=1 go build -tags cgo_sqlite ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use.
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)
