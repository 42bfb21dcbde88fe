package pathsftp

import (
	"os"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	"github.com/pkg/sftp"
)

func Stat(client *sftp.Client, path string) (*pathmodels.FileInfo, error) {
	if path == "" {
		path = "."
	}

	info, err := client.Lstat(path)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-stat", Path: path, Err: err}
	}

	var target os.FileInfo
	if info.Mode()&os.ModeSymlink != 0 {
		target, err = client.Stat(path)
		if err != nil {
			return nil, &pathmodels.PathError{Op: "sftp-stat-follow", Path: path, Err: err}
		}
	}

	fi := pathmodels.FromFS(info, target)
	return &fi, nil
}
