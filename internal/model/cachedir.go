package model

import (
	"os"
	"path/filepath"
)

// defaultCacheDir returns the on-disk location for the model-answer cache.
// Falls back to a relative directory when the home directory is unknown.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tierdesk-cache"
	}
	return filepath.Join(home, ".tierdesk", "cache")
}
