package glob

import (
	"errors"
	"io/fs"
	"iter"
	"strings"
	"syscall"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
)

type task struct {
	dir   string // as handed to the Lister; "" is the working directory
	index int    // next pattern segment to apply
	depth int    // levels descended by the "**" at index
}

type taskKey struct {
	dir   string
	index int
}

// Matches is a single pass over the paths matching a pattern. Each call to
// Next may read directories. It is not safe for concurrent use and cannot
// be rewound; expand the pattern again for a fresh walk.
type Matches struct {
	pattern *Pattern
	lister  Lister
	queue   []task
	ready   []string
	emitted map[string]struct{}
	queued  map[taskKey]int
	current string
	err     error
}

// Next advances to the next match. It returns false when the walk is over
// or has failed; check Err afterwards.
func (m *Matches) Next() bool {
	for {
		if len(m.ready) > 0 {
			m.current, m.ready = m.ready[0], m.ready[1:]
			return true
		}
		if m.err != nil || len(m.queue) == 0 {
			m.current = ""
			m.queue = nil
			return false
		}

		t := m.queue[0]
		m.queue = m.queue[1:]
		if err := m.step(t); err != nil {
			m.err = err
		}
	}
}

// Path returns the current match, normalized with the pattern's convention.
func (m *Matches) Path() string {
	return m.current
}

// Err returns the error that stopped the walk, if any. Finding nothing is
// not an error.
func (m *Matches) Err() error {
	return m.err
}

// All adapts m to a range-over-func loop. Breaking out of the loop leaves
// the remaining matches unread.
func (m *Matches) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for m.Next() {
			if !yield(m.Path()) {
				return
			}
		}
	}
}

func (m *Matches) step(t task) error {
	segs := m.pattern.segments
	if t.index == len(segs) {
		if len(segs) == 0 {
			if _, err := m.lister.Stat(m.fsPath(t.dir)); err != nil {
				return m.failed(t.dir, err)
			}
		}
		m.emit(t.dir)
		return nil
	}

	seg := segs[t.index]
	last := t.index == len(segs)-1

	switch seg.kind {
	case literalSegment:
		child := m.join(t.dir, seg.text)
		info, err := m.lister.Stat(m.fsPath(child))
		if err != nil {
			return m.failed(child, err)
		}
		if last || info.IsDir {
			m.push(task{dir: child, index: t.index + 1})
		}

	case wildcardSegment:
		entries, err := m.list(t.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !m.visible(e.Name, seg) || !seg.matcher.Match(e.Name) {
				continue
			}
			if !last && !e.IsDir {
				continue
			}
			m.push(task{dir: m.join(t.dir, e.Name), index: t.index + 1})
		}

	case recursiveSegment:
		// zero levels: the rest of the pattern applies here, or, for a
		// trailing "**", this directory is itself a match
		m.push(task{dir: t.dir, index: t.index + 1})

		o := m.pattern.opts
		if o.maxDepth >= 0 && t.depth >= o.maxDepth {
			return nil
		}
		entries, err := m.list(t.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir || (e.Symlink && !o.followSymlinks) || !m.visible(e.Name, seg) {
				continue
			}
			m.push(task{dir: m.join(t.dir, e.Name), index: t.index, depth: t.depth + 1})
		}
	}
	return nil
}

// push queues t unless the same directory was already queued for the same
// segment at the same or a shallower depth.
func (m *Matches) push(t task) {
	key := taskKey{dir: path.Normalize(t.dir, m.pattern.opts.convention), index: t.index}
	if depth, ok := m.queued[key]; ok && depth <= t.depth {
		return
	}
	m.queued[key] = t.depth
	m.queue = append(m.queue, t)
}

func (m *Matches) emit(dir string) {
	out := path.Normalize(dir, m.pattern.opts.convention)
	if _, ok := m.emitted[out]; ok {
		return
	}
	m.emitted[out] = struct{}{}
	m.ready = append(m.ready, out)
}

func (m *Matches) list(dir string) ([]pathmodels.FileInfo, error) {
	entries, err := m.lister.List(m.fsPath(dir))
	if err != nil {
		return nil, m.failed(dir, err)
	}
	return entries, nil
}

// failed turns a lister error into the walk's outcome: missing paths are
// simply not matches, anything else goes through the error handler.
func (m *Matches) failed(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return nil
	}
	o := m.pattern.opts
	if herr := o.onError(m.fsPath(p), err); herr != nil {
		return herr
	}
	o.logger.Printf("skipping %s: %v", m.fsPath(p), err)
	return nil
}

func (m *Matches) visible(name string, seg segment) bool {
	o := m.pattern.opts
	if !o.includeHidden && strings.HasPrefix(name, ".") &&
		!(seg.kind == wildcardSegment && strings.HasPrefix(seg.text, ".")) {
		return false
	}
	for _, ig := range m.pattern.ignore {
		if ig.Match(name) {
			return false
		}
	}
	return true
}

func (m *Matches) fsPath(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func (m *Matches) join(dir, name string) string {
	sep := m.pattern.opts.convention.Separator
	switch {
	case dir == "":
		return name
	case dir[len(dir)-1] == sep:
		return dir + name
	case !m.pattern.absolute && dir == m.pattern.prefix:
		// drive-relative, "C:" + "foo"
		return dir + name
	}
	return dir + string(sep) + name
}
