// Package bulkcopy copies a set of files into one directory and reports the
// outcome as a whole.
//
// Every precondition is checked before the first byte moves: the destination
// must be a directory (or be creatable when asked), and every source must
// exist and be a regular file. Each file is streamed to a hidden partial name
// inside the destination and renamed into place once the source has been read
// to the end, so a file under its final name is always complete.
package bulkcopy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	pathtransfer "github.com/ImGajeed76/shellpath/pkg/shellpath/path/operations/transfer"
)

var (
	ErrNotDir       = errors.New("not a directory")
	ErrIsDir        = errors.New("is a directory")
	ErrNameConflict = errors.New("another source has the same name")
)

// FileSystem is the storage the copy runs against. Stat follows symlinks and
// reports a missing path with an error wrapping fs.ErrNotExist.
type FileSystem interface {
	Stat(name string) (*pathmodels.FileInfo, error)
	MkdirAll(dir string) error
	Open(name string) (pathmodels.Reader, error)
	Create(name string, perm pathmodels.FileMode) (pathmodels.Writer, error)
	Rename(oldName, newName string) error
	Remove(name string) error
}

type Options struct {
	// CreateDestination creates a missing destination directory, parents
	// included
	CreateDestination bool
	// Jobs is the number of files copied at once
	Jobs int
	// ContinueOnError keeps copying the remaining files after a failure
	ContinueOnError bool
	// Convention used to join the destination with source names
	Convention path.Convention
	// Permissions for created files
	Permissions pathmodels.FileMode
	// BufferSize overrides the buffer picked from the file size
	BufferSize int
	// Timeout bounds each file, zero for none
	Timeout time.Duration
	// ProgressFunc is called after every chunk. With Jobs > 1 it is called
	// from several goroutines.
	ProgressFunc func(source string, total, copied int64)
	Logger       *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Jobs:        1,
		Convention:  path.Native(),
		Permissions: pathmodels.DefaultPathOption().Permissions,
		Logger:      log.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Jobs < 1 {
		o.Jobs = d.Jobs
	}
	if o.Convention.Separator == 0 {
		o.Convention = d.Convention
	}
	if o.Permissions == 0 {
		o.Permissions = d.Permissions
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Result sums up one Copy call.
type Result struct {
	TotalItems int
	Succeeded  int
	Failed     int
	// Skipped counts files never attempted
	Skipped int
	// Copied is the number of bytes in files that reached their final name
	Copied int64
	Errors []*CopyError
}

// OK reports whether every file was copied.
func (r *Result) OK() bool {
	return r.Succeeded == r.TotalItems && len(r.Errors) == 0
}

type item struct {
	source string
	name   string
	size   int64
}

// Copy copies sources into the directory dest. The error is nil exactly when
// every source was copied; otherwise it wraps one *CopyError per failure and
// the Result tells how far the copy got.
func Copy(ctx context.Context, fsys FileSystem, sources []string, dest string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	result := &Result{TotalItems: len(sources)}

	if err := prepareDestination(fsys, dest, opts.CreateDestination); err != nil {
		result.Skipped = len(sources)
		result.Errors = []*CopyError{err}
		return result, err
	}

	items, errs := inspectSources(fsys, sources, opts.Convention)
	if len(errs) > 0 {
		result.Skipped = len(sources)
		result.Errors = errs
		return result, joinErrors(errs)
	}

	var mu sync.Mutex
	record := func(n int64, err *CopyError) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			return
		}
		result.Succeeded++
		result.Copied += n
	}
	skip := func(n int) {
		mu.Lock()
		defer mu.Unlock()
		result.Skipped += n
	}

	if opts.Jobs == 1 {
		for i, it := range items {
			if ctx.Err() != nil {
				skip(len(items) - i)
				break
			}
			n, err := copyOne(ctx, fsys, it, dest, opts)
			record(n, err)
			if err != nil && !opts.ContinueOnError {
				skip(len(items) - i - 1)
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Jobs)
		for _, it := range items {
			g.Go(func() error {
				if gctx.Err() != nil {
					skip(1)
					return nil
				}
				n, err := copyOne(gctx, fsys, it, dest, opts)
				record(n, err)
				if err != nil && !opts.ContinueOnError {
					return err
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	if result.OK() {
		return result, nil
	}
	if len(result.Errors) == 0 {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		result.Errors = append(result.Errors, ioFailure("copy", dest, cause))
	}
	return result, joinErrors(result.Errors)
}

func prepareDestination(fsys FileSystem, dest string, create bool) *CopyError {
	info, err := fsys.Stat(dest)
	switch {
	case err == nil && !info.IsDir:
		return precondition("destination", dest, ErrNotDir)
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return precondition("destination-stat", dest, err)
	case !create:
		return precondition("destination", dest, err)
	}

	if err := fsys.MkdirAll(dest); err != nil {
		return precondition("destination-mkdir", dest, err)
	}
	return nil
}

func inspectSources(fsys FileSystem, sources []string, conv path.Convention) ([]item, []*CopyError) {
	var (
		items []item
		errs  []*CopyError
		seen  = make(map[string]string, len(sources))
	)

	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			errs = append(errs, precondition("source", src, err))
			continue
		}
		if info.IsDir {
			errs = append(errs, precondition("source", src, ErrIsDir))
			continue
		}

		name := path.Basename(src, conv)
		if other, ok := seen[name]; ok {
			errs = append(errs, precondition("source", src, fmt.Errorf("%w: %s", ErrNameConflict, other)))
			continue
		}
		seen[name] = src
		items = append(items, item{source: src, name: name, size: info.Size})
	}
	return items, errs
}

func copyOne(ctx context.Context, fsys FileSystem, it item, dest string, opts Options) (int64, *CopyError) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	final := path.JoinAndNormalize(opts.Convention, dest, it.name)
	partial := path.JoinAndNormalize(opts.Convention, dest, "."+it.name+"."+uuid.NewString()+".partial")

	src, err := fsys.Open(it.source)
	if err != nil {
		return 0, ioFailure("open", it.source, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			opts.Logger.Printf("error closing file: %v", err)
		}
	}()

	dst, err := fsys.Create(partial, opts.Permissions)
	if err != nil {
		return 0, ioFailure("create", partial, err)
	}

	copyOpts := pathmodels.CopyOptions{
		PathOption: pathmodels.PathOption{
			Permissions: opts.Permissions,
			BufferSize:  opts.BufferSize,
			Timeout:     opts.Timeout,
		},
	}
	if opts.ProgressFunc != nil {
		copyOpts.ProgressFunc = func(total, copied int64) {
			opts.ProgressFunc(it.source, total, copied)
		}
	}

	n, err := pathtransfer.Stream(ctx, dst, src, it.size, copyOpts)
	if err != nil {
		if cerr := dst.Close(); cerr != nil {
			opts.Logger.Printf("error closing file: %v", cerr)
		}
		discard(fsys, partial, opts.Logger)
		return n, ioFailure("write", final, err)
	}
	if err := dst.Close(); err != nil {
		discard(fsys, partial, opts.Logger)
		return n, ioFailure("close", final, err)
	}
	if err := fsys.Rename(partial, final); err != nil {
		discard(fsys, partial, opts.Logger)
		return n, ioFailure("rename", final, err)
	}
	return n, nil
}

func discard(fsys FileSystem, name string, logger *log.Logger) {
	if err := fsys.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("error removing partial file: %v", err)
	}
}

func joinErrors(errs []*CopyError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	joined := make([]error, len(errs))
	for i, err := range errs {
		joined[i] = err
	}
	return errors.Join(joined...)
}
