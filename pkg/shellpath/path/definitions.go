package path

import (
	"path/filepath"
	"strings"
)

// Convention describes how paths are spelled on one family of systems.
type Convention struct {
	// Name is the value accepted by ConventionFor
	Name string
	// Separator between segments
	Separator byte
	// Drives enables `C:` drive and `\\server` UNC prefixes
	Drives bool
	// DoubleRoot keeps a path made of exactly two separators as-is
	DoubleRoot bool
}

var (
	// Posix is the `/` convention. A path that is exactly "//" is kept, as
	// POSIX leaves its meaning to the implementation.
	Posix = Convention{Name: "posix", Separator: '/', DoubleRoot: true}

	// Windows is the `\` convention with drive letters and UNC servers.
	Windows = Convention{Name: "windows", Separator: '\\', Drives: true}
)

// Native returns the convention of the running system.
func Native() Convention {
	if filepath.Separator == '\\' {
		return Windows
	}
	return Posix
}

// ConventionFor maps a configuration value to a convention. Unknown names and
// "auto" resolve to Native.
func ConventionFor(name string) Convention {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Posix.Name, "unix", "/":
		return Posix
	case Windows.Name, "win", `\`:
		return Windows
	default:
		return Native()
	}
}

// Sep returns the separator as a string.
func (c Convention) Sep() string {
	return string(c.Separator)
}

// Path is a parsed, normalized path.
type Path struct {
	prefix   string
	segments []string
	absolute bool
	conv     Convention
}
