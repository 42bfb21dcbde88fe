// Package shellpath is the short way in: the common operations on the
// local disk with default options. The subpackages hold the full API.
package shellpath

import (
	"context"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/bulkcopy"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/fnmatch"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/glob"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
)

func NormalizePosix(p string) string {
	return path.NormalizePosix(p)
}

func NormalizeWindows(p string) string {
	return path.NormalizeWindows(p)
}

// Fnmatch reports whether name matches the single-segment pattern.
func Fnmatch(pattern, name string) (bool, error) {
	return fnmatch.Match(pattern, name)
}

// Glob lists the local paths matching pattern, with "**" descending any
// number of directories.
func Glob(pattern string, opts ...glob.Option) ([]string, error) {
	b := backend.Local()
	m, err := glob.Expand(pattern, b, append([]glob.Option{glob.WithConvention(b.Convention())}, opts...)...)
	if err != nil {
		return nil, err
	}
	return glob.Collect(m)
}

// Copy copies local sources into the directory dest. See bulkcopy.Copy.
func Copy(ctx context.Context, sources []string, dest string, opts bulkcopy.Options) (*bulkcopy.Result, error) {
	return bulkcopy.Copy(ctx, backend.Local(), sources, dest, opts)
}

// GlobCopy copies every local file matching pattern into dest.
func GlobCopy(ctx context.Context, pattern, dest string, opts bulkcopy.Options) (*bulkcopy.Result, error) {
	sources, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	return Copy(ctx, sources, dest, opts)
}
