package path

import "strings"

// Parse normalizes p and returns it as a Path.
func Parse(p string, c Convention) Path {
	if c.DoubleRoot && isDoubleRoot(p, c) {
		return Path{prefix: c.Sep(), absolute: true, conv: c}
	}
	prefix, segments, absolute := Split(p, c)
	return Path{
		prefix:   prefix,
		segments: resolve(segments, absolute),
		absolute: absolute,
		conv:     c,
	}
}

func (p Path) String() string {
	return assemble(p.prefix, p.segments, p.absolute, p.conv)
}

// Prefix returns the drive or UNC prefix.
func (p Path) Prefix() string {
	return p.prefix
}

// Segments returns a copy of the resolved segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

func (p Path) IsAbs() bool {
	return p.absolute
}

func (p Path) Convention() Convention {
	return p.conv
}

// Join appends elem to p. An element that is absolute or carries its own
// prefix replaces everything before it.
func (p Path) Join(elem ...string) Path {
	out := Path{
		prefix:   p.prefix,
		segments: p.Segments(),
		absolute: p.absolute,
		conv:     p.conv,
	}
	for _, e := range elem {
		if e == "" {
			continue
		}
		prefix, segments, absolute := Split(e, p.conv)
		if absolute || prefix != "" {
			out.prefix, out.absolute, out.segments = prefix, absolute, nil
		}
		out.segments = append(out.segments, segments...)
	}
	out.segments = resolve(out.segments, out.absolute)
	if !p.conv.Drives && len(out.segments) > 0 {
		// "//" only survives on its own
		out.prefix = ""
	}
	return out
}

// Parent returns the directory containing p. Roots and prefixes are their
// own parent; the parent of a relative path with nothing left to drop climbs
// with "..".
func (p Path) Parent() Path {
	n := len(p.segments)
	switch {
	case n == 0 && (p.absolute || p.prefix != ""):
		return p
	case n == 0 || p.segments[n-1] == "..":
		return p.Join("..")
	}
	out := p
	out.segments = append([]string(nil), p.segments[:n-1]...)
	return out
}

// Name returns the final segment, or "" for roots.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Stem returns the name up to its first dot. Leading dots belong to the stem.
func (p Path) Stem() string {
	name := p.Name()
	trimmed := strings.TrimLeft(name, ".")
	if i := strings.IndexByte(trimmed, '.'); i >= 0 {
		return name[:len(name)-len(trimmed)+i]
	}
	return name
}

// Suffix returns the text after the last dot of the name, without the dot.
func (p Path) Suffix() string {
	trimmed := strings.TrimLeft(p.Name(), ".")
	if i := strings.LastIndexByte(trimmed, '.'); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}

// Basename returns the last segment of the normalized path.
func Basename(p string, c Convention) string {
	return Parse(p, c).Name()
}

// Dirname returns the normalized directory containing p.
func Dirname(p string, c Convention) string {
	return Parse(p, c).Parent().String()
}

// JoinAndNormalize joins parts with the convention's separator and
// normalizes the result.
func JoinAndNormalize(c Convention, parts ...string) string {
	return Normalize(strings.Join(parts, c.Sep()), c)
}
