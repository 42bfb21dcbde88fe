package pathsftp

import (
	"errors"
	"io/fs"
	"path"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	"github.com/pkg/sftp"
)

func MakeDir(client *sftp.Client, dirPath string, parents bool, existsOk bool) error {
	dirPath = path.Clean(dirPath)

	info, err := client.Stat(dirPath)
	if err == nil {
		if !info.IsDir() {
			return &pathmodels.PathError{Op: "sftp-mkdir-notdir", Path: dirPath, Err: fs.ErrExist}
		}
		if existsOk {
			return nil
		}
		return &pathmodels.PathError{Op: "sftp-mkdir-exists", Path: dirPath, Err: fs.ErrExist}
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return &pathmodels.PathError{Op: "sftp-mkdir-stat", Path: dirPath, Err: err}
	}

	if !parents {
		if err := client.Mkdir(dirPath); err != nil {
			return &pathmodels.PathError{Op: "sftp-mkdir", Path: dirPath, Err: err}
		}
		return nil
	}

	if err := client.MkdirAll(dirPath); err != nil {
		return &pathmodels.PathError{Op: "sftp-mkdir-all", Path: dirPath, Err: err}
	}
	return nil
}
