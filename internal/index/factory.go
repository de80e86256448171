package index

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/srewoo/repospector/pkg/types"
)

// Backend names selectable at construction.
const (
	BackendSQLite  = "sqlite"
	BackendChromem = "chromem"
)

// New builds a VectorIndex backend rooted at dataDir. The caller still owns
// Init.
func New(backend, dataDir string) (VectorIndex, error) {
	switch strings.ToLower(backend) {
	case BackendSQLite, "":
		dbPath := ":memory:"
		if dataDir != "" {
			dbPath = filepath.Join(dataDir, "repospector.db")
		}
		return NewSQLiteIndex(dbPath)
	case BackendChromem:
		persistDir := ""
		if dataDir != "" {
			persistDir = filepath.Join(dataDir, "chromem")
		}
		return NewChromemIndex(persistDir), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedBackend, backend)
	}
}
