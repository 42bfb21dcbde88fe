package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// List returns the immediate children of dirPath in directory order.
// Symbolic links report the kind of their target; a dangling link is
// reported as a file.
func List(dirPath string) ([]pathmodels.FileInfo, error) {
	if dirPath == "" {
		dirPath = "."
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, &fs.PathError{Op: "local-list-read", Path: dirPath, Err: err}
	}

	infos := make([]pathmodels.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				// removed between ReadDir and Info
				continue
			}
			return nil, &fs.PathError{Op: "local-list-info", Path: filepath.Join(dirPath, entry.Name()), Err: err}
		}

		var target fs.FileInfo
		if entry.Type()&fs.ModeSymlink != 0 {
			target, _ = os.Stat(filepath.Join(dirPath, entry.Name()))
		}
		infos = append(infos, pathmodels.FromFS(info, target))
	}

	return infos, nil
}
