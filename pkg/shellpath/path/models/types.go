package pathmodels

import (
	"io/fs"
	"time"
)

type FileMode uint32

// FileInfo is the backend-neutral view of one directory entry.
type FileInfo struct {
	Name    string    // base Name of the file
	Size    int64     // length in bytes
	Mode    FileMode  // file Mode bits
	ModTime time.Time // modification time
	IsDir   bool      // is a directory, after following a symlink
	Symlink bool      // the entry itself is a symbolic link
}

// FromFS converts an fs.FileInfo. target, when non-nil, is the info of the
// symlink's destination.
func FromFS(info fs.FileInfo, target fs.FileInfo) FileInfo {
	fi := FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    FileMode(info.Mode()),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Symlink: info.Mode()&fs.ModeSymlink != 0,
	}
	if target != nil {
		fi.IsDir = target.IsDir()
		fi.Size = target.Size()
	}
	return fi
}

type PathOption struct {
	// Permissions for new files/directories
	Permissions FileMode
	// Buffer size for copy operations
	BufferSize int
	// Timeout for operations
	Timeout time.Duration
}

func DefaultPathOption() PathOption {
	return PathOption{
		Permissions: 0644,
		BufferSize:  0, // sized from the file, see helpers.GetOptimalBufferSize
		Timeout:     60 * time.Second,
	}
}

type CopyOptions struct {
	PathOption
	// ProgressFunc callback, called after every chunk
	ProgressFunc func(total, copied int64)
}

var (
	ErrNotExist   = fs.ErrNotExist   // Item does not exist
	ErrExist      = fs.ErrExist      // Item already exists
	ErrPermission = fs.ErrPermission // Permission denied
	ErrInvalid    = fs.ErrInvalid    // Invalid operation
	ErrClosed     = fs.ErrClosed     // File already closed
)

type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return e.Op + " " + e.Path
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
