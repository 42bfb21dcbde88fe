package path

import "strings"

// Normalize collapses repeated separators, drops "." segments and resolves
// ".." against the segment before it. It accepts any string.
//
// A ".." that would climb above the root of an absolute path is discarded; on
// a relative path it is kept. Drive and UNC prefixes are never consumed. The
// empty path normalizes to ".".
func Normalize(p string, c Convention) string {
	if c.DoubleRoot && isDoubleRoot(p, c) {
		return p
	}
	prefix, segments, absolute := Split(p, c)
	return assemble(prefix, resolve(segments, absolute), absolute, c)
}

// NormalizePosix normalizes p with the `/` convention.
func NormalizePosix(p string) string {
	return Normalize(p, Posix)
}

// NormalizeWindows normalizes p with the `\` convention.
func NormalizeWindows(p string) string {
	return Normalize(p, Windows)
}

// NormalizeNative normalizes p with the convention of the running system.
func NormalizeNative(p string) string {
	return Normalize(p, Native())
}

func isDoubleRoot(p string, c Convention) bool {
	return len(p) == 2 && p[0] == c.Separator && p[1] == c.Separator
}

func resolve(segments []string, absolute bool) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		switch s {
		case "", ".":
		case "..":
			if n := len(out); n > 0 && out[n-1] != ".." {
				out = out[:n-1]
			} else if !absolute {
				out = append(out, s)
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

func assemble(prefix string, segments []string, absolute bool, c Convention) string {
	var b strings.Builder
	b.WriteString(prefix)
	if absolute {
		b.WriteByte(c.Separator)
	} else if prefix == "" && c.Drives && len(segments) > 0 && looksLikeDrive(segments[0]) {
		// a bare "C:" segment would read back as a drive
		b.WriteByte('.')
		b.WriteByte(c.Separator)
	}
	b.WriteString(strings.Join(segments, c.Sep()))
	if b.Len() == 0 {
		return "."
	}
	return b.String()
}

func looksLikeDrive(s string) bool {
	return len(s) >= 2 && s[1] == ':' && isDriveLetter(s[0])
}
