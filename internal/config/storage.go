package config

import (
	"os"
	"path/filepath"
)

// StorageConfig selects the persistence backend for client state
// (session and cart namespaces). Backend is one of "file", "redis" or
// "memory". Dir is only used by the file backend; Prefix only by the
// Redis backend.
type StorageConfig struct {
	Backend string
	Dir     string
	Prefix  string
}

// LoadStorageConfig reads environment variables to build a
// StorageConfig. The file backend defaults to ~/.hotel-client, falling
// back to a relative directory when the home directory is unknown.
func LoadStorageConfig() StorageConfig {
	dir := os.Getenv("STORAGE_DIR")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".hotel-client")
		} else {
			dir = ".hotel-client"
		}
	}
	return StorageConfig{
		Backend: getenv("STORAGE_BACKEND", "file"),
		Dir:     dir,
		Prefix:  getenv("STORAGE_REDIS_PREFIX", "hotel-client"),
	}
}
