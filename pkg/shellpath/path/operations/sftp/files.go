package pathsftp

import (
	"errors"
	"io/fs"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	"github.com/pkg/sftp"
)

// Open opens a remote file for reading.
func Open(client *sftp.Client, filePath string) (pathmodels.Reader, error) {
	file, err := client.Open(filePath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-open", Path: filePath, Err: err}
	}
	return file, nil
}

// Create creates or truncates a remote file and applies perm to it.
func Create(client *sftp.Client, filePath string, perm pathmodels.FileMode) (pathmodels.Writer, error) {
	file, err := client.Create(filePath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-create", Path: filePath, Err: err}
	}
	// not every server honours chmod; the content is what matters
	_ = file.Chmod(fs.FileMode(perm))
	return file, nil
}

const posixRenameExtension = "posix-rename@openssh.com"

// Rename moves oldPath to newPath, replacing newPath if it exists. Servers
// with the posix-rename extension replace the target atomically.
func Rename(client *sftp.Client, oldPath, newPath string) error {
	if _, ok := client.HasExtension(posixRenameExtension); ok {
		if err := client.PosixRename(oldPath, newPath); err != nil {
			return &pathmodels.PathError{Op: "sftp-rename", Path: oldPath, Err: err}
		}
		return nil
	}

	// plain SSH_FXP_RENAME refuses an existing target
	if err := Remove(client, newPath, true); err != nil {
		return err
	}
	if err := client.Rename(oldPath, newPath); err != nil {
		return &pathmodels.PathError{Op: "sftp-rename", Path: oldPath, Err: err}
	}
	return nil
}

// Remove deletes a remote file or empty directory.
func Remove(client *sftp.Client, filePath string, missingOk bool) error {
	if err := client.Remove(filePath); err != nil {
		if missingOk && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &pathmodels.PathError{Op: "sftp-remove", Path: filePath, Err: err}
	}
	return nil
}
