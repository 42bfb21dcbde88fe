package pathlocal

import (
	"io/fs"
	"log"
	"os"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// Create creates or truncates filePath. The returned writer flushes the file
// to disk when closed, so a successful Close means the data is durable.
func Create(filePath string, perm pathmodels.FileMode) (pathmodels.Writer, error) {
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(perm))
	if err != nil {
		return nil, &fs.PathError{Op: "local-create", Path: filePath, Err: err}
	}
	return &syncedFile{File: file}, nil
}

type syncedFile struct {
	*os.File
}

func (f *syncedFile) Close() error {
	if err := f.File.Sync(); err != nil {
		if closeErr := f.File.Close(); closeErr != nil {
			log.Printf("error closing file: %v", closeErr)
		}
		return &fs.PathError{Op: "local-create-sync", Path: f.Name(), Err: err}
	}
	return f.File.Close()
}
