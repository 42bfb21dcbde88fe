package pathtransfer

import (
	"context"
	"io"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path/helpers"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// Stream copies src to dst until src is exhausted, checking ctx between
// chunks. size is only used to pick a buffer and report progress.
// It returns the number of bytes written; a nil error means src reached EOF
// and every byte read was written.
func Stream(ctx context.Context, dst io.Writer, src io.Reader, size int64, options pathmodels.CopyOptions) (int64, error) {
	bufferSize := helpers.GetOptimalBufferSize(size)
	if options.BufferSize > 0 {
		bufferSize = options.BufferSize
	}

	buf := make([]byte, bufferSize)
	var copied int64

	for {
		select {
		case <-ctx.Done():
			return copied, ctx.Err()
		default:
		}

		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, err := dst.Write(buf[:nr])
			if err != nil {
				return copied, err
			}
			if nw != nr {
				return copied, io.ErrShortWrite
			}

			copied += int64(nw)
			if options.ProgressFunc != nil {
				options.ProgressFunc(size, copied)
			}
		}

		if readErr == io.EOF {
			return copied, nil
		}
		if readErr != nil {
			return copied, readErr
		}
	}
}
