package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Remove deletes a file or an empty directory. A missing path is not an
// error when missingOk is set.
func Remove(path string, missingOk bool) error {
	path = filepath.Clean(path)

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) && missingOk {
			return nil
		}
		return &fs.PathError{Op: "local-remove-stat", Path: path, Err: err}
	}

	if runtime.GOOS == "windows" && info.Mode().Perm()&0200 == 0 {
		// read-only files cannot be deleted on Windows
		if err := os.Chmod(path, 0666); err != nil {
			return &fs.PathError{Op: "local-remove-chmod", Path: path, Err: err}
		}
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) && missingOk {
			return nil
		}
		return &fs.PathError{Op: "local-remove", Path: path, Err: err}
	}
	return nil
}
