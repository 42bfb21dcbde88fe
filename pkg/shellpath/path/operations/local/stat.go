package pathlocal

import (
	"io/fs"
	"os"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// Stat describes path, following symlinks.
func Stat(path string) (*pathmodels.FileInfo, error) {
	if path == "" {
		path = "."
	}

	info, err := os.Lstat(path)
	if err != nil {
		return nil, &fs.PathError{Op: "local-stat", Path: path, Err: err}
	}

	var target fs.FileInfo
	if info.Mode()&fs.ModeSymlink != 0 {
		target, err = os.Stat(path)
		if err != nil {
			return nil, &fs.PathError{Op: "local-stat-follow", Path: path, Err: err}
		}
	}

	fi := pathmodels.FromFS(info, target)
	return &fi, nil
}
