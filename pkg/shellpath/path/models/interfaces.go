package pathmodels

import (
	"io"
	"io/fs"
)

// Reader is an open source file.
type Reader interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

// Writer is an open destination file.
type Writer interface {
	io.WriteCloser
	Name() string
}
