package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	constants "github.com/ImGajeed76/shellpath/pkg"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/backend"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/bulkcopy"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/config"
	sftpmanager "github.com/ImGajeed76/shellpath/pkg/shellpath/sftp"
)

// testApp isolates the settings, the keyring and the working directory and
// returns an app that never prompts.
func testApp(t *testing.T) *app {
	t.Helper()
	keyring.MockInit()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range append(config.Keys(), "config", "sftp_password", "sftp_password_file") {
		name := "SHELLPATH_" + strings.ToUpper(key)
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	work := filepath.Join(home, "work")
	require.NoError(t, os.Mkdir(work, 0755))
	t.Chdir(work)

	return &app{interactive: func() bool { return false }}
}

func runCLI(t *testing.T, a *app, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := a.rootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("data:"+f), 0644))
	}
}

// attachMemoryServer serves an in-memory SFTP filesystem as tester@memory.
func attachMemoryServer(t *testing.T, a *app) *sftp.Client {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go func() {
		_ = server.Serve()
	}()
	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)

	a.manager = sftpmanager.NewManager(sftpmanager.ManagerConfig{})
	a.manager.Attach(sftpmanager.ConnectionDetails{Hostname: "memory", Username: "tester"}, client)
	t.Cleanup(func() {
		a.manager.Close()
		server.Close()
	})
	return client
}

func writeRemote(t *testing.T, client *sftp.Client, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, client.MkdirAll(filepath.ToSlash(filepath.Dir(f))))
		w, err := client.Create(f)
		require.NoError(t, err)
		_, err = io.WriteString(w, "remote:"+f)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
}

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "Posix",
			args: []string{"--convention", "posix", "normalize", "/a//b/../c", "foo/..", "//"},
			want: []string{"/a/c", ".", "//"},
		},
		{
			name: "Windows",
			args: []string{"--convention", "windows", "normalize", `C:\a\..\b`, `\\server\share\..\x`},
			want: []string{`C:\b`, `\\server\x`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, testApp(t), "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines(out))
		})
	}
}

func TestSplitCommand(t *testing.T) {
	out, _, err := runCLI(t, testApp(t), "", "--convention", "windows", "split", "--json", `C:\Users\me`, `rel\dir`)
	require.NoError(t, err)

	var got []splitOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []splitOutput{
		{Path: `C:\Users\me`, Prefix: "C:", Absolute: true, Segments: []string{"Users", "me"}},
		{Path: `rel\dir`, Prefix: "", Absolute: false, Segments: []string{"rel", "dir"}},
	}, got)

	out, _, err = runCLI(t, testApp(t), "", "--convention", "posix", "split", "/usr/lib")
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib\tprefix=\"\" absolute=true segments=[\"usr\" \"lib\"]\n", out)
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    []string
		wantErr error
	}{
		{name: "Star", args: []string{"*.go", "a.go", "b.txt", ".go"}, want: []string{"a.go", ".go"}},
		{name: "Class", args: []string{"[!a]?.md", "ab.md", "xy.md"}, want: []string{"xy.md"}},
		{name: "Ignore case flag", args: []string{"-i", "*.GO", "main.go"}, want: []string{"main.go"}},
		{name: "Ignore case setting", args: []string{"*.GO", "main.go"}, env: map[string]string{"SHELLPATH_CASE_INSENSITIVE": "true"}, want: []string{"main.go"}},
		{name: "No match", args: []string{"*.go", "a.txt"}, wantErr: errNoMatch},
		{name: "No escape", args: []string{"--no-escape", `a\*`, `a\b`}, want: []string{`a\b`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testApp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			out, _, err := runCLI(t, a, "", append([]string{"match"}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines(out))
		})
	}

	_, _, err := runCLI(t, testApp(t), "", "match", "[a-", "a")
	assert.Error(t, err)
}

func TestGlobCommand_Local(t *testing.T) {
	a := testApp(t)
	root := t.TempDir()
	writeTree(t, root, "a.txt", "d1/b.txt", "d1/d2/c.txt", "d1/.hidden.txt", "d1/skip.md")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "Recursive",
			args: []string{filepath.Join(root, "**", "*.txt")},
			want: []string{"a.txt", "d1/b.txt", "d1/d2/c.txt", "d1/.hidden.txt"},
		},
		{
			name: "Not recursive",
			args: []string{"--recursive=false", filepath.Join(root, "**", "*.txt")},
			want: []string{"d1/b.txt", "d1/.hidden.txt"},
		},
		{
			name: "Without hidden",
			args: []string{"--hidden=false", filepath.Join(root, "d1", "*")},
			want: []string{"d1/b.txt", "d1/d2", "d1/skip.md"},
		},
		{
			name: "Max depth",
			args: []string{"--max-depth", "1", filepath.Join(root, "**", "*.txt")},
			want: []string{"a.txt", "d1/b.txt", "d1/.hidden.txt"},
		},
		{
			name: "Ignore",
			args: []string{"--ignore", "d2", "--ignore", ".*", filepath.Join(root, "**", "*.txt")},
			want: []string{"a.txt", "d1/b.txt"},
		},
		{
			name: "Directories",
			args: []string{filepath.Join(root, "**")},
			want: []string{".", "d1", "d1/d2"},
		},
		{
			name: "No match",
			args: []string{filepath.Join(root, "*.none")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, a, "", append([]string{"glob"}, tt.args...)...)
			require.NoError(t, err)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, filepath.FromSlash(w)))
			}
			if len(want) == 0 {
				assert.Empty(t, out)
				return
			}
			assert.ElementsMatch(t, want, lines(out))
		})
	}
}

func TestGlobCommand_Null(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b.txt")

	out, _, err := runCLI(t, testApp(t), "", "glob", "-0", filepath.Join(root, "*.txt"))
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")},
		strings.Split(strings.TrimSuffix(out, "\x00"), "\x00"))
}

func TestGlobCommand_SFTP(t *testing.T) {
	a := testApp(t)
	client := attachMemoryServer(t, a)
	writeRemote(t, client, "/data/a.scala", "/data/sub/b.scala", "/data/sub/c.txt")

	out, _, err := runCLI(t, a, "", "glob", "sftp://tester@memory/data/**/*.scala")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/data/a.scala", "/data/sub/b.scala"}, lines(out))

	// plain paths go to the configured backend
	t.Setenv("SHELLPATH_BACKEND", "sftp")
	t.Setenv("SHELLPATH_SFTP_HOST", "memory")
	t.Setenv("SHELLPATH_SFTP_USER", "tester")
	out, _, err = runCLI(t, a, "", "glob", "/data/sub/*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/data/sub/b.scala", "/data/sub/c.txt"}, lines(out))
}

func TestGlobCommand_Errors(t *testing.T) {
	_, _, err := runCLI(t, testApp(t), "", "glob", "gopher://host/x")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	_, _, err = runCLI(t, testApp(t), "", "glob", "/tmp/[oops")
	assert.Error(t, err)

	_, _, err = runCLI(t, testApp(t), "", "--convention", "vms", "glob", "*")
	assert.Error(t, err)
}

func TestCpCommand_Local(t *testing.T) {
	a := testApp(t)
	root := t.TempDir()
	writeTree(t, root, "src/a.scala", "src/b.scala", "src/c.txt", "other/readme.md")
	dest := filepath.Join(root, "out", "nested")

	out, _, err := runCLI(t, a, "", "cp", "-p", "-j", "2",
		filepath.Join(root, "src", "*.scala"),
		filepath.Join(root, "other", "readme.md"),
		dest)
	require.NoError(t, err)
	assert.Contains(t, out, "copied 3 of 3 files")

	for _, name := range []string{"a.scala", "b.scala", "readme.md"} {
		assert.FileExists(t, filepath.Join(dest, name))
	}
	data, err := os.ReadFile(filepath.Join(dest, "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "data:other/readme.md", string(data))
}

func TestCpCommand_Failures(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.txt", "dup/a.txt")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "Missing destination",
			args:    []string{filepath.Join(root, "src", "a.txt"), filepath.Join(root, "missing")},
			wantErr: bulkcopy.ErrPrecondition,
		},
		{
			name:    "Missing source",
			args:    []string{filepath.Join(root, "src", "ghost.txt"), root},
			wantErr: bulkcopy.ErrPrecondition,
		},
		{
			name:    "Duplicate names",
			args:    []string{filepath.Join(root, "*", "a.txt"), filepath.Join(root, "src")},
			wantErr: bulkcopy.ErrNameConflict,
		},
		{
			name:    "Pattern without matches",
			args:    []string{filepath.Join(root, "src", "*.none"), root},
			wantMsg: "no match for",
		},
		{
			name:    "Mixed backends",
			args:    []string{"sftp://tester@memory/data/a.txt", root},
			wantErr: errMixedBackends,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, testApp(t), "", append([]string{"cp"}, tt.args...)...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}

	entries, err := os.ReadDir(filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCpCommand_SFTP(t *testing.T) {
	a := testApp(t)
	client := attachMemoryServer(t, a)
	writeRemote(t, client, "/data/a.scala", "/data/sub/b.scala")

	out, errOut, err := runCLI(t, a, "", "cp", "--create",
		"sftp://tester@memory/data/**/*.scala",
		"sftp://tester@memory/backup")
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "copied 2 of 2 files")

	r, err := client.Open("/backup/b.scala")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "remote:/data/sub/b.scala", string(data))
}

func TestConfigCommand(t *testing.T) {
	a := testApp(t)

	out, _, err := runCLI(t, a, "", "config", "get", "copy_jobs")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = runCLI(t, a, "", "config", "set", "copy_jobs", "4")
	require.NoError(t, err)
	assert.Equal(t, "copy_jobs = 4\n", out)

	// the environment is applied but never written back
	t.Setenv("SHELLPATH_SFTP_USER", "from-env")
	_, _, err = runCLI(t, a, "", "config", "set", "max_depth", "3")
	require.NoError(t, err)

	p, err := config.Path()
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "copy_jobs: 4")
	assert.Contains(t, string(data), "max_depth: 3")
	assert.NotContains(t, string(data), "from-env")

	out, _, err = runCLI(t, a, "", "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "from-env")
	assert.Contains(t, out, "copy_jobs")

	out, _, err = runCLI(t, a, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, p+"\n", out)

	_, _, err = runCLI(t, a, "", "config", "set", "copy_jobs", "0")
	assert.Error(t, err)
	_, _, err = runCLI(t, a, "", "config", "get", "colour")
	assert.ErrorIs(t, err, config.ErrUnknownKey)
}

func TestConfigBackendCommand(t *testing.T) {
	a := testApp(t)

	out, _, err := runCLI(t, a, "", "config", "backend", "sftp")
	require.NoError(t, err)
	assert.Equal(t, "backend = sftp\n", out)

	s, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "sftp", s.Backend)

	_, _, err = runCLI(t, a, "", "config", "backend", "carrier-pigeon")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	_, _, err = runCLI(t, a, "", "config", "backend")
	assert.Error(t, err)
}

func TestPasswordCommand(t *testing.T) {
	a := testApp(t)
	secrets, err := config.NewSecrets(config.KeyringService)
	require.NoError(t, err)

	out, _, err := runCLI(t, a, "hunter2\n", "password", "--stdin", "deploy@example.com")
	require.NoError(t, err)
	assert.Equal(t, "stored password for deploy@example.com\n", out)
	assert.Equal(t, "hunter2", secrets.SFTPPassword("deploy", "example.com"))

	_, _, err = runCLI(t, a, "", "password", "--delete", "deploy@example.com")
	require.NoError(t, err)
	assert.False(t, secrets.Exists(config.PasswordKey("deploy", "example.com")))

	_, _, err = runCLI(t, a, "\n", "password", "deploy@example.com")
	assert.Error(t, err)
	_, _, err = runCLI(t, a, "x\n", "password", "no-host")
	assert.Error(t, err)
	_, _, err = runCLI(t, a, "x\n", "password")
	assert.Error(t, err)
}

func TestPatternsCommand(t *testing.T) {
	out, _, err := runCLI(t, testApp(t), "", "patterns", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Patterns"))

	out, _, err = runCLI(t, testApp(t), "", "patterns")
	require.NoError(t, err)
	assert.Contains(t, out, "Patterns")
	assert.Contains(t, out, "shellpath cp -p")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, testApp(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shellpath version "+constants.Version)

	out, _, err = runCLI(t, testApp(t), "", "version", "--json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, constants.Version, got["version"])
	assert.Contains(t, got["backends"], "sftp")
}
