package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Rename moves oldPath to newPath, replacing newPath if it exists.
func Rename(oldPath string, newPath string) error {
	oldPath = filepath.Clean(oldPath)
	newPath = filepath.Clean(newPath)

	if err := os.Rename(oldPath, newPath); err != nil {
		return &fs.PathError{Op: "local-rename", Path: oldPath, Err: err}
	}
	return nil
}
