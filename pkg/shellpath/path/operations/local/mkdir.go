package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"
)

func MakeDir(path string, parents bool, existsOk bool) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &fs.PathError{Op: "local-mkdir-notdir", Path: path, Err: fs.ErrExist}
		}
		if existsOk {
			return nil
		}
		return &fs.PathError{Op: "local-mkdir-exists", Path: path, Err: fs.ErrExist}
	}

	if !os.IsNotExist(err) {
		// e.g. permission denied on a parent
		return &fs.PathError{Op: "local-mkdir-stat", Path: path, Err: err}
	}

	if !parents {
		if err := os.Mkdir(path, 0755); err != nil {
			return &fs.PathError{Op: "local-mkdir", Path: path, Err: err}
		}
		return nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return &fs.PathError{Op: "local-mkdir-all", Path: path, Err: err}
	}
	return nil
}
