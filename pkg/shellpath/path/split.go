package path

import "strings"

// Split decomposes p into its drive or UNC prefix, its segments and whether it
// starts at a root.
//
// Runs of separators never produce empty segments and a trailing separator is
// dropped, so "foo/" and "foo" split the same. A path with nothing after its
// prefix and root yields a single empty segment.
func Split(p string, c Convention) (prefix string, segments []string, absolute bool) {
	prefix, rest := SplitDrive(p, c)
	sep := c.Separator

	i := 0
	for i < len(rest) && rest[i] == sep {
		i++
	}
	absolute = i > 0

	for i < len(rest) {
		j := strings.IndexByte(rest[i:], sep)
		if j < 0 {
			segments = append(segments, rest[i:])
			break
		}
		segments = append(segments, rest[i:i+j])
		i += j
		for i < len(rest) && rest[i] == sep {
			i++
		}
	}

	if len(segments) == 0 {
		segments = []string{""}
	}
	return prefix, segments, absolute
}

// SplitDrive separates a Windows drive (`C:`) or UNC server (`\\server`)
// prefix from the rest of p. Conventions without drives return an empty
// prefix.
func SplitDrive(p string, c Convention) (prefix, rest string) {
	if !c.Drives {
		return "", p
	}

	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		return p[:2], p[2:]
	}

	sep := c.Separator
	if len(p) >= 3 && p[0] == sep && p[1] == sep && p[2] != sep {
		end := strings.IndexByte(p[2:], sep)
		if end < 0 {
			return p, ""
		}
		return p[:2+end], p[2+end:]
	}

	return "", p
}

func isDriveLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
