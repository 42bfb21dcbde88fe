// Package glob expands shell patterns against a directory tree.
//
// A pattern is split into segments with the same rules as path.Split. Each
// segment is a literal name, a wildcard compiled by fnmatch, or "**", which
// stands for any number of directory levels. Expansion is lazy: directories
// are read as the caller pulls results.
package glob

import (
	"github.com/ImGajeed76/shellpath/pkg/shellpath/fnmatch"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

// Lister is the directory-listing collaborator. List returns the immediate
// children of dir; Stat describes a single path. Both report a missing path
// with an error that wraps fs.ErrNotExist.
type Lister interface {
	List(dir string) ([]pathmodels.FileInfo, error)
	Stat(name string) (*pathmodels.FileInfo, error)
}

type segmentKind int

const (
	literalSegment segmentKind = iota
	wildcardSegment
	recursiveSegment
)

type segment struct {
	kind    segmentKind
	text    string
	matcher *fnmatch.Matcher
}

// Pattern is a compiled glob pattern.
type Pattern struct {
	source   string
	prefix   string
	absolute bool
	segments []segment
	ignore   []*fnmatch.Matcher
	opts     options
}

// Compile parses pattern. Malformed wildcard segments and ignore patterns
// are reported here, wrapping fnmatch.ErrBadPattern.
func Compile(pattern string, opts ...Option) (*Pattern, error) {
	return compile(pattern, true, opts)
}

func compile(pattern string, recursive bool, opts []Option) (*Pattern, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.recursive = recursive

	prefix, parts, absolute := path.Split(pattern, o.convention)
	p := &Pattern{
		source:   pattern,
		prefix:   prefix,
		absolute: absolute,
		opts:     o,
	}

	for _, part := range parts {
		if part == "" {
			continue
		}
		seg, err := o.segment(part)
		if err != nil {
			return nil, err
		}
		if n := len(p.segments); seg.kind == recursiveSegment && n > 0 && p.segments[n-1].kind == recursiveSegment {
			continue
		}
		p.segments = append(p.segments, seg)
	}

	for _, ig := range o.ignore {
		m, err := fnmatch.Compile(ig, o.matchOptions...)
		if err != nil {
			return nil, err
		}
		p.ignore = append(p.ignore, m)
	}

	return p, nil
}

func (o options) segment(part string) (segment, error) {
	switch {
	case part == "**" && o.recursive:
		return segment{kind: recursiveSegment, text: part}, nil
	case part == "." || part == "..":
		return segment{kind: literalSegment, text: part}, nil
	}

	m, err := fnmatch.Compile(part, o.matchOptions...)
	if err != nil {
		return segment{}, err
	}
	if lit, ok := m.Literal(); ok {
		return segment{kind: literalSegment, text: lit}, nil
	}
	return segment{kind: wildcardSegment, text: part, matcher: m}, nil
}

func (p *Pattern) String() string {
	return p.source
}

// HasWildcards reports whether any segment needs a directory listing.
func (p *Pattern) HasWildcards() bool {
	for _, seg := range p.segments {
		if seg.kind != literalSegment {
			return true
		}
	}
	return false
}

// root is the directory the walk starts from, "" for the working directory.
func (p *Pattern) root() string {
	if p.absolute {
		return p.prefix + p.opts.convention.Sep()
	}
	return p.prefix
}

// Expand starts a fresh walk of the pattern.
func (p *Pattern) Expand(l Lister) *Matches {
	m := &Matches{
		pattern: p,
		lister:  l,
		emitted: make(map[string]struct{}),
		queued:  make(map[taskKey]int),
	}
	if p.source != "" {
		m.push(task{dir: p.root()})
	}
	return m
}

// Expand compiles pattern and starts walking it. "**" segments descend any
// number of levels; a trailing "**" yields directories only.
func Expand(pattern string, l Lister, opts ...Option) (*Matches, error) {
	p, err := Compile(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return p.Expand(l), nil
}

// Glob is Expand without recursive descent: "**" is an ordinary wildcard
// that matches one level, like "*".
func Glob(pattern string, l Lister, opts ...Option) (*Matches, error) {
	p, err := compile(pattern, false, opts)
	if err != nil {
		return nil, err
	}
	return p.Expand(l), nil
}

// Collect drains m.
func Collect(m *Matches) ([]string, error) {
	var out []string
	for m.Next() {
		out = append(out, m.Path())
	}
	return out, m.Err()
}
