package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores each namespace as one JSON document under a state
// directory (e.g. ~/.hotel-client/auth-storage.json). Writes go through
// a temp file followed by a rename so a crash mid-write never leaves a
// truncated document behind.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

// NewFileKV creates the state directory if needed and returns a file
// backed KV rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(ns string) string {
	return filepath.Join(f.dir, ns+".json")
}

// Get reads the document for ns from disk.
func (f *FileKV) Get(ns string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(ns))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put atomically replaces the document for ns.
func (f *FileKV) Put(ns string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := f.path(ns) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(ns))
}

// Delete removes the document for ns; missing files are ignored.
func (f *FileKV) Delete(ns string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(ns))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
