package glob

import (
	"io"
	"log"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/fnmatch"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
)

// ErrorHandler decides what happens when a directory cannot be read. Return
// nil to skip the directory and keep walking, or an error to stop.
type ErrorHandler func(dir string, err error) error

type options struct {
	convention     path.Convention
	recursive      bool
	includeHidden  bool
	followSymlinks bool
	maxDepth       int
	ignore         []string
	matchOptions   []fnmatch.Option
	onError        ErrorHandler
	logger         *log.Logger
}

func defaultOptions() options {
	return options{
		convention:    path.Native(),
		recursive:     true,
		includeHidden: true,
		maxDepth:      -1,
		onError:       func(_ string, err error) error { return err },
		logger:        log.New(io.Discard, "", 0),
	}
}

// Option configures Compile, Expand and Glob.
type Option func(*options)

// WithConvention sets the separator rules used to split the pattern and to
// build and normalize result paths.
func WithConvention(c path.Convention) Option {
	return func(o *options) { o.convention = c }
}

// WithHidden controls whether wildcard segments and "**" see names starting
// with a dot. A wildcard segment that itself starts with a dot always does.
func WithHidden(include bool) Option {
	return func(o *options) { o.includeHidden = include }
}

// WithFollowSymlinks lets "**" descend into symlinked directories. The walk
// does not detect cycles.
func WithFollowSymlinks(follow bool) Option {
	return func(o *options) { o.followSymlinks = follow }
}

// WithMaxDepth limits how many directory levels a "**" segment descends.
// A negative depth means no limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithIgnore drops entries whose name matches any of the patterns, wherever
// they are enumerated. Literal segments are not affected.
func WithIgnore(patterns ...string) Option {
	return func(o *options) { o.ignore = append(o.ignore, patterns...) }
}

// WithCaseInsensitive matches every segment, literal ones included, without
// regard to case.
func WithCaseInsensitive() Option {
	return func(o *options) { o.matchOptions = append(o.matchOptions, fnmatch.CaseInsensitive()) }
}

// WithMatchOptions passes options through to every compiled segment.
func WithMatchOptions(opts ...fnmatch.Option) Option {
	return func(o *options) { o.matchOptions = append(o.matchOptions, opts...) }
}

// WithErrorHandler replaces the default handler, which stops the walk on the
// first unreadable directory.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.onError = h
		}
	}
}

// WithLogger receives a line for every directory the walk skips.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// SkipUnreadable is an ErrorHandler that ignores every unreadable directory.
func SkipUnreadable(string, error) error {
	return nil
}
