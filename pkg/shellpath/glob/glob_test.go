package glob

import (
	"bytes"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/fnmatch"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	pathlocal "github.com/ImGajeed76/shellpath/pkg/shellpath/path/operations/local"
)

type localLister struct{}

func (localLister) List(dir string) ([]pathmodels.FileInfo, error) { return pathlocal.List(dir) }

func (localLister) Stat(name string) (*pathmodels.FileInfo, error) { return pathlocal.Stat(name) }

// memFS is an in-memory tree. Paths are registered normalized; parents are
// created on demand.
type memFS struct {
	conv  path.Convention
	dirs  map[string][]pathmodels.FileInfo
	files map[string]pathmodels.FileInfo
	fail  map[string]error
	lists int
}

func newMemFS(conv path.Convention) *memFS {
	return &memFS{
		conv:  conv,
		dirs:  map[string][]pathmodels.FileInfo{},
		files: map[string]pathmodels.FileInfo{},
		fail:  map[string]error{},
	}
}

func (m *memFS) file(paths ...string) *memFS {
	for _, p := range paths {
		m.add(p, pathmodels.FileInfo{})
	}
	return m
}

func (m *memFS) dir(paths ...string) *memFS {
	for _, p := range paths {
		m.add(p, pathmodels.FileInfo{IsDir: true})
	}
	return m
}

func (m *memFS) link(p string) *memFS {
	m.add(p, pathmodels.FileInfo{IsDir: true, Symlink: true})
	return m
}

func (m *memFS) add(p string, info pathmodels.FileInfo) {
	n := path.Normalize(p, m.conv)
	if _, ok := m.dirs[n]; ok {
		return
	}
	if _, ok := m.files[n]; ok {
		return
	}
	info.Name = path.Basename(n, m.conv)
	if parent := path.Dirname(n, m.conv); n != "." && parent != n {
		m.add(parent, pathmodels.FileInfo{IsDir: true})
		m.dirs[parent] = append(m.dirs[parent], info)
	}
	if info.IsDir {
		m.dirs[n] = m.dirs[n]
	} else {
		m.files[n] = info
	}
}

func (m *memFS) List(dir string) ([]pathmodels.FileInfo, error) {
	m.lists++
	n := path.Normalize(dir, m.conv)
	if err, ok := m.fail[n]; ok {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: err}
	}
	entries, ok := m.dirs[n]
	if !ok {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: fs.ErrNotExist}
	}
	return append([]pathmodels.FileInfo(nil), entries...), nil
}

func (m *memFS) Stat(name string) (*pathmodels.FileInfo, error) {
	n := path.Normalize(name, m.conv)
	if _, ok := m.dirs[n]; ok {
		return &pathmodels.FileInfo{Name: path.Basename(n, m.conv), IsDir: true}, nil
	}
	if info, ok := m.files[n]; ok {
		return &info, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func collect(t *testing.T, pattern string, l Lister, opts ...Option) []string {
	t.Helper()
	m, err := Expand(pattern, l, opts...)
	require.NoError(t, err)
	got, err := Collect(m)
	require.NoError(t, err)
	return got
}

// scalaTree lays out three directories holding the same four files.
func scalaTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"d1", "d2", "longer-dir-name"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0755))
		for _, name := range []string{"a.scala", "foobar.scala", "README.md", "config.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), nil, 0644))
		}
	}
	return root
}

func TestExpand_LocalTree(t *testing.T) {
	root := scalaTree(t)
	in := func(parts ...string) string { return filepath.Join(append([]string{root}, parts...)...) }

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "Recursive files",
			pattern: in("**", "*.scala"),
			want: []string{
				in("d1", "a.scala"), in("d1", "foobar.scala"),
				in("d2", "a.scala"), in("d2", "foobar.scala"),
				in("longer-dir-name", "a.scala"), in("longer-dir-name", "foobar.scala"),
			},
		},
		{
			name:    "Trailing recursive yields directories",
			pattern: in("**"),
			want:    []string{root, in("d1"), in("d2"), in("longer-dir-name")},
		},
		{
			name:    "Wildcard directory",
			pattern: in("*", "README.md"),
			want:    []string{in("d1", "README.md"), in("d2", "README.md"), in("longer-dir-name", "README.md")},
		},
		{
			name:    "Single character",
			pattern: in("d?", "*.txt"),
			want:    []string{in("d1", "config.txt"), in("d2", "config.txt")},
		},
		{
			name:    "Negated class",
			pattern: in("[!d]*", "a.*"),
			want:    []string{in("longer-dir-name", "a.scala")},
		},
		{
			name:    "Literal path",
			pattern: in("d2", "config.txt"),
			want:    []string{in("d2", "config.txt")},
		},
		{
			name:    "Dot segments are resolved",
			pattern: in("d1", "..", "d2", "*.txt"),
			want:    []string{in("d2", "config.txt")},
		},
		{
			name:    "Missing directory",
			pattern: in("nomatch", "*"),
			want:    nil,
		},
		{
			name:    "Nothing matches",
			pattern: in("**", "nomatch"),
			want:    nil,
		},
		{
			name:    "Literal through a file",
			pattern: in("d1", "a.scala", "x"),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.pattern, localLister{})
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestExpand_AgreesWithDoublestar(t *testing.T) {
	root := scalaTree(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d1", "nested", "deep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "d1", "nested", "deep", "z.scala"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "d1", "nested", "notes.txt"), nil, 0644))

	patterns := []string{
		"**/*.scala",
		"*/a.*",
		"d?/*.txt",
		"**/nested/**/*.scala",
		"d1/**/*.txt",
		"*/[a-f]*",
		"**/README.md",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			want, err := doublestar.Glob(os.DirFS(root), pattern)
			require.NoError(t, err)

			got := collect(t, filepath.Join(root, filepath.FromSlash(pattern)), localLister{})
			rel := make([]string, 0, len(got))
			for _, p := range got {
				r, err := filepath.Rel(root, p)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.ElementsMatch(t, want, rel)
		})
	}
}

func TestCompile_Malformed(t *testing.T) {
	for _, pattern := range []string{"/data/[a-z", "/data/x/ab[", `/data/trailing\`} {
		t.Run(pattern, func(t *testing.T) {
			m, err := Expand(pattern, newMemFS(path.Posix), WithConvention(path.Posix))
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, fnmatch.ErrBadPattern))
		})
	}

	_, err := Compile("/data/*", WithConvention(path.Posix), WithIgnore("[oops"))
	assert.True(t, errors.Is(err, fnmatch.ErrBadPattern))
}

func TestExpand_Relative(t *testing.T) {
	mem := newMemFS(path.Posix).file("src/a.go", "src/b/c.go", "docs/x.md")
	posix := WithConvention(path.Posix)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"**/*.go", []string{"src/a.go", "src/b/c.go"}},
		{"**/**/*.go", []string{"src/a.go", "src/b/c.go"}},
		{"**", []string{".", "src", "src/b", "docs"}},
		{"**/b/**", []string{"src/b"}},
		{"*/*", []string{"src/a.go", "src/b", "docs/x.md"}},
		{"./src/../docs/*", []string{"docs/x.md"}},
		{".", []string{"."}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, collect(t, tt.pattern, mem, posix))
		})
	}
}

func TestExpand_Root(t *testing.T) {
	mem := newMemFS(path.Posix).file("/etc/hosts")
	assert.Equal(t, []string{"/"}, collect(t, "/", mem, WithConvention(path.Posix)))
	assert.Equal(t, []string{"/", "/etc"}, collect(t, "/**", mem, WithConvention(path.Posix)))
}

func TestExpand_Windows(t *testing.T) {
	mem := newMemFS(path.Windows).file(`C:\proj\src\main.go`, `C:\proj\src\util\x.go`, `C:\proj\README.md`)
	win := WithConvention(path.Windows)

	assert.ElementsMatch(t,
		[]string{`C:\proj\src\main.go`, `C:\proj\src\util\x.go`},
		collect(t, `C:\proj\**\*.go`, mem, win))
	assert.ElementsMatch(t,
		[]string{`C:\proj\README.md`},
		collect(t, `C:\proj\*.md`, mem, win))
	assert.ElementsMatch(t,
		[]string{`C:\`, `C:\proj`, `C:\proj\src`, `C:\proj\src\util`},
		collect(t, `C:\**`, mem, win))
}

func TestExpand_NoDuplicates(t *testing.T) {
	mem := newMemFS(path.Posix).file("x/x/y", "x/y")
	got := collect(t, "**/x/**/y", mem, WithConvention(path.Posix))
	assert.ElementsMatch(t, []string{"x/x/y", "x/y"}, got)
}

func TestExpand_Lazy(t *testing.T) {
	mem := newMemFS(path.Posix)
	for _, d := range []string{"a", "b", "c", "d", "e"} {
		mem.file("/data/" + d + "/one/f.txt")
	}

	m, err := Expand("/data/**", mem, WithConvention(path.Posix))
	require.NoError(t, err)

	require.True(t, m.Next())
	assert.Equal(t, "/data", m.Path())
	assert.Equal(t, 1, mem.lists)

	rest, err := Collect(m)
	require.NoError(t, err)
	assert.Len(t, rest, 10)
	assert.Equal(t, 11, mem.lists)

	assert.False(t, m.Next())
	assert.Equal(t, "", m.Path())
}

func TestExpand_All(t *testing.T) {
	mem := newMemFS(path.Posix).file("/data/1", "/data/2", "/data/3")
	m, err := Expand("/data/*", mem, WithConvention(path.Posix))
	require.NoError(t, err)

	var got []string
	for p := range m.All() {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)

	require.True(t, m.Next())
	assert.NotContains(t, got, m.Path())
}

func TestGlob_NotRecursive(t *testing.T) {
	mem := newMemFS(path.Posix).file("/data/top.go", "/data/src/a.go", "/data/src/deep/b.go")
	posix := WithConvention(path.Posix)

	m, err := Glob("/data/**/*.go", mem, posix)
	require.NoError(t, err)
	got, err := Collect(m)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/data/src/a.go"}, got)

	m, err = Glob("/data/**", mem, posix)
	require.NoError(t, err)
	got, err = Collect(m)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/data/top.go", "/data/src"}, got)
}

func TestExpand_Options(t *testing.T) {
	mem := newMemFS(path.Posix).
		file("/data/.git/config", "/data/src/.env", "/data/src/main.go", "/data/src/app.js").
		file("/data/node_modules/lib/index.js", "/data/Docs/ReadMe.MD").
		file("/data/a/b/c/deep.go").
		link("/data/link").
		file("/data/link/linked.go")

	tests := []struct {
		name    string
		pattern string
		opts    []Option
		want    []string
	}{
		{
			name:    "Hidden excluded",
			pattern: "/data/**/*",
			opts:    []Option{WithHidden(false), WithMaxDepth(1)},
			want:    []string{"/data/src", "/data/node_modules", "/data/Docs", "/data/a", "/data/link", "/data/src/main.go", "/data/src/app.js", "/data/node_modules/lib", "/data/Docs/ReadMe.MD", "/data/a/b"},
		},
		{
			name:    "Dot pattern sees hidden",
			pattern: "/data/src/.*",
			opts:    []Option{WithHidden(false)},
			want:    []string{"/data/src/.env"},
		},
		{
			name:    "Ignore",
			pattern: "/data/**/*.js",
			opts:    []Option{WithIgnore("node_modules")},
			want:    []string{"/data/src/app.js"},
		},
		{
			name:    "Max depth zero",
			pattern: "/data/**/*.go",
			opts:    []Option{WithMaxDepth(0)},
			want:    nil,
		},
		{
			name:    "Max depth",
			pattern: "/data/**/*.go",
			opts:    []Option{WithMaxDepth(1)},
			want:    []string{"/data/src/main.go"},
		},
		{
			name:    "Symlinks not followed",
			pattern: "/data/**/*.go",
			want:    []string{"/data/src/main.go", "/data/a/b/c/deep.go"},
		},
		{
			name:    "Symlinks followed",
			pattern: "/data/**/*.go",
			opts:    []Option{WithFollowSymlinks(true)},
			want:    []string{"/data/src/main.go", "/data/a/b/c/deep.go", "/data/link/linked.go"},
		},
		{
			name:    "Explicit symlink segment",
			pattern: "/data/link/*.go",
			want:    []string{"/data/link/linked.go"},
		},
		{
			name:    "Case insensitive literals",
			pattern: "/data/docs/readme.md",
			opts:    []Option{WithCaseInsensitive()},
			want:    []string{"/data/Docs/ReadMe.MD"},
		},
		{
			name:    "Case sensitive by default",
			pattern: "/data/docs/readme.md",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithConvention(path.Posix)}, tt.opts...)
			assert.ElementsMatch(t, tt.want, collect(t, tt.pattern, mem, opts...))
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	mem := newMemFS(path.Posix).file("/data/open/a.txt", "/data/locked/b.txt", "/data/zz/c.txt")
	mem.fail["/data/locked"] = fs.ErrPermission
	posix := WithConvention(path.Posix)

	t.Run("Stops by default", func(t *testing.T) {
		m, err := Expand("/data/*/*.txt", mem, posix)
		require.NoError(t, err)
		_, err = Collect(m)
		assert.True(t, errors.Is(err, fs.ErrPermission))
	})

	t.Run("Skip unreadable", func(t *testing.T) {
		var buf bytes.Buffer
		got := collect(t, "/data/*/*.txt", mem, posix,
			WithErrorHandler(SkipUnreadable), WithLogger(log.New(&buf, "", 0)))
		assert.ElementsMatch(t, []string{"/data/open/a.txt", "/data/zz/c.txt"}, got)
		assert.True(t, strings.Contains(buf.String(), "/data/locked"))
	})

	t.Run("Custom handler", func(t *testing.T) {
		var seen []string
		handler := func(dir string, err error) error {
			seen = append(seen, dir)
			return nil
		}
		collect(t, "/data/*/*.txt", mem, posix, WithErrorHandler(handler))
		assert.Equal(t, []string{"/data/locked"}, seen)
	})
}

func TestPattern(t *testing.T) {
	p, err := Compile("/data/*.go", WithConvention(path.Posix))
	require.NoError(t, err)
	assert.Equal(t, "/data/*.go", p.String())
	assert.True(t, p.HasWildcards())

	p, err = Compile(`/data/lit\*eral`, WithConvention(path.Posix))
	require.NoError(t, err)
	assert.False(t, p.HasWildcards())

	mem := newMemFS(path.Posix).file("/data/lit*eral")
	got, err := Collect(p.Expand(mem))
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/lit*eral"}, got)

	// each Expand is a fresh walk
	got, err = Collect(p.Expand(mem))
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/lit*eral"}, got)
}
