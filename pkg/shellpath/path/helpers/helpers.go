package helpers

import "runtime"

const (
	minBufferSize = 4 * 1024
	maxBufferSize = 1024 * 1024
)

// GetOptimalBufferSize returns a copy buffer size for a file of fileSize
// bytes: the file size itself for small files, otherwise 4KB per usable CPU
// capped at 1MB.
func GetOptimalBufferSize(fileSize int64) int {
	if fileSize <= 0 {
		return minBufferSize
	}
	if fileSize < minBufferSize {
		return int(fileSize)
	}

	scaled := minBufferSize * runtime.GOMAXPROCS(0)
	if scaled > maxBufferSize {
		return maxBufferSize
	}
	return scaled
}
