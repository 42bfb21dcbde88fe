// Package fnmatch compiles shell wildcard patterns for a single path segment.
//
// Supported syntax:
//   - '*' matches any run of characters, including none
//   - '?' matches exactly one character
//   - '[abc]', '[a-z]' match one character from the class
//   - '[!abc]' and '[^abc]' match one character not in the class
//   - '\x' matches x literally
//
// A ']' directly after '[' (or after the negation mark) is a member of the
// class. Patterns never match across separators because callers only ever
// hand them one segment.
package fnmatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrBadPattern is reported, wrapped in a *PatternError, for malformed
// patterns. It is the same value as filepath.ErrBadPattern.
var ErrBadPattern = filepath.ErrBadPattern

// PatternError describes where a pattern failed to parse.
type PatternError struct {
	Pattern string
	Pos     int // rune offset of the offending construct
	Msg     string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("fnmatch: %s at position %d in %q", e.Msg, e.Pos, e.Pattern)
}

func (e *PatternError) Unwrap() error {
	return ErrBadPattern
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	pattern string
	tokens  []token
	fold    bool
	nfc     bool
}

// Compile parses pattern. Syntax errors are reported here and never at
// match time.
func Compile(pattern string, opts ...Option) (*Matcher, error) {
	o := options{escapes: true}
	for _, opt := range opts {
		opt(&o)
	}

	source := o.prepare(pattern)
	tokens, err := parse(source, o.escapes)
	if err != nil {
		err.Pattern = pattern
		return nil, err
	}

	return &Matcher{
		pattern: pattern,
		tokens:  tokens,
		fold:    o.fold,
		nfc:     o.nfc,
	}, nil
}

// MustCompile is like Compile but panics on a malformed pattern.
func MustCompile(pattern string, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether name matches pattern.
func Match(pattern, name string, opts ...Option) (bool, error) {
	m, err := Compile(pattern, opts...)
	if err != nil {
		return false, err
	}
	return m.Match(name), nil
}

func (m *Matcher) String() string {
	return m.pattern
}

// Literal returns the text the pattern stands for when it has no wildcards
// and matches exactly one name.
func (m *Matcher) Literal() (string, bool) {
	if m.fold || m.nfc {
		return "", false
	}
	rs := make([]rune, 0, len(m.tokens))
	for _, t := range m.tokens {
		if t.kind != tokLiteral {
			return "", false
		}
		rs = append(rs, t.r)
	}
	return string(rs), true
}

// Match reports whether the whole of name matches.
func (m *Matcher) Match(name string) bool {
	o := options{nfc: m.nfc}
	return matchTokens(m.tokens, []rune(o.prepare(name)), m.fold)
}

// HasMeta reports whether segment contains an unescaped '*', '?' or '['.
func HasMeta(segment string) bool {
	for i := 0; i < len(segment); i++ {
		switch segment[i] {
		case '\\':
			i++
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// Unescape removes backslash escapes from a segment without metacharacters.
func Unescape(segment string) string {
	if !strings.Contains(segment, `\`) {
		return segment
	}
	var b strings.Builder
	for i := 0; i < len(segment); i++ {
		if segment[i] == '\\' && i+1 < len(segment) {
			i++
		}
		b.WriteByte(segment[i])
	}
	return b.String()
}

type options struct {
	escapes bool
	fold    bool
	nfc     bool
}

// Option tunes how a pattern is compiled.
type Option func(*options)

// CaseInsensitive compares runes up to simple case folding, so one rune in the
// pattern always stands for one rune in the name.
func CaseInsensitive() Option {
	return func(o *options) { o.fold = true }
}

// NormalizeUnicode compares NFC forms, so a decomposed file name matches a
// composed pattern.
func NormalizeUnicode() Option {
	return func(o *options) { o.nfc = true }
}

// WithoutEscapes treats '\' as an ordinary character.
func WithoutEscapes() Option {
	return func(o *options) { o.escapes = false }
}

func (o options) prepare(s string) string {
	if o.nfc {
		s = norm.NFC.String(s)
	}
	return s
}
