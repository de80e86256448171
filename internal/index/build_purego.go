//go:build !cgo_sqlite
// +build !cgo_sqlite

package index

// Compiled for pure-Go builds. Uses modernc.org/sqlite, which needs no C
// compiler and cross-compiles cleanly; vector math always runs in Go.
//
// Build command:
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use.
	DriverName = "sqlite"

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)
