package pathlocal

import (
	"io/fs"
	"os"

	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// Open opens filePath for reading.
func Open(filePath string) (pathmodels.Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &fs.PathError{Op: "local-open", Path: filePath, Err: err}
	}
	return file, nil
}
