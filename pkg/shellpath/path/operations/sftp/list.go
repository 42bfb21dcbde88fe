package pathsftp

import (
	"os"
	"path"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	"github.com/pkg/sftp"
)

// List returns the immediate children of dirPath on the remote side.
// Symbolic links report the kind of their target.
func List(client *sftp.Client, dirPath string) ([]pathmodels.FileInfo, error) {
	if dirPath == "" {
		dirPath = "."
	}

	entries, err := client.ReadDir(dirPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-read", Path: dirPath, Err: err}
	}

	infos := make([]pathmodels.FileInfo, 0, len(entries))
	for _, entry := range entries {
		var target os.FileInfo
		if entry.Mode()&os.ModeSymlink != 0 {
			target, _ = client.Stat(path.Join(dirPath, entry.Name()))
		}
		infos = append(infos, pathmodels.FromFS(entry, target))
	}
	return infos, nil
}
