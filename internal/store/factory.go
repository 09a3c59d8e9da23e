package store

import (
	"fmt"
	"path/filepath"
)

// NewStore opens the store backend named by kind rooted at dataDir.
// The sqlite backend keeps its database at <dataDir>/runs.db.
func NewStore(kind, dataDir string) (Store, error) {
	switch kind {
	case "", "fs":
		return NewFSStore(dataDir)
	case "sqlite":
		fs, err := NewFSStore(dataDir)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(filepath.Join(fs.BaseDir(), "runs.db"))
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
