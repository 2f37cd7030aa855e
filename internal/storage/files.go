package storage

import (
	"os"
	"path/filepath"

	"github.com/Esayas077/Backend/internal/apperr"
)

// FileStore persists uploaded proof-of-delivery artifacts.
type FileStore interface {
	// SaveProof writes the blob under the given filename and returns an
	// apperr.KindStorage error on failure.
	SaveProof(filename string, data []byte) error
}

// DiskFileStore writes proof files into a local uploads directory, which is
// also served statically under /uploads.
type DiskFileStore struct {
	dir string
}

// NewDiskFileStore creates the uploads directory if needed.
func NewDiskFileStore(dir string) (*DiskFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "Failed to create upload directory", err)
	}
	return &DiskFileStore{dir: dir}, nil
}

// Dir returns the directory proof files are written to.
func (f *DiskFileStore) Dir() string { return f.dir }

func (f *DiskFileStore) SaveProof(filename string, data []byte) error {
	path := filepath.Join(f.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.KindStorage, "Failed to save file", err)
	}
	return nil
}
