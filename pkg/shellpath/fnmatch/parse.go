package fnmatch

import "unicode"

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokAny
	tokStar
	tokClass
)

type token struct {
	kind  tokenKind
	r     rune
	class *charClass
}

type runeRange struct {
	lo, hi rune
}

type charClass struct {
	negated bool
	ranges  []runeRange
}

func (c *charClass) matches(r rune, fold bool) bool {
	in := c.contains(r)
	if fold {
		for f := unicode.SimpleFold(r); !in && f != r; f = unicode.SimpleFold(f) {
			in = c.contains(f)
		}
	}
	return in != c.negated
}

func (c *charClass) contains(r rune) bool {
	for _, rr := range c.ranges {
		if rr.lo <= r && r <= rr.hi {
			return true
		}
	}
	return false
}

// sameRune compares a and b, optionally up to simple case folding. Folding
// never changes how many runes a name has.
func sameRune(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	if !fold {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func parse(pattern string, escapes bool) ([]token, *PatternError) {
	rs := []rune(pattern)
	tokens := make([]token, 0, len(rs))

	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; {
		case c == '*':
			// consecutive stars are one star
			if n := len(tokens); n == 0 || tokens[n-1].kind != tokStar {
				tokens = append(tokens, token{kind: tokStar})
			}
		case c == '?':
			tokens = append(tokens, token{kind: tokAny})
		case c == '[':
			class, end, err := parseClass(rs, i, escapes)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokClass, class: class})
			i = end
		case c == '\\' && escapes:
			if i+1 == len(rs) {
				return nil, &PatternError{Pos: i, Msg: "trailing escape"}
			}
			i++
			tokens = append(tokens, token{kind: tokLiteral, r: rs[i]})
		default:
			tokens = append(tokens, token{kind: tokLiteral, r: c})
		}
	}
	return tokens, nil
}

// parseClass reads the class opening at rs[open] and returns the index of its
// closing ']'.
func parseClass(rs []rune, open int, escapes bool) (*charClass, int, *PatternError) {
	unterminated := &PatternError{Pos: open, Msg: "unterminated character class"}
	class := &charClass{}

	i := open + 1
	if i < len(rs) && (rs[i] == '!' || rs[i] == '^') {
		class.negated = true
		i++
	}

	first := true
	for ; ; i++ {
		if i >= len(rs) {
			return nil, 0, unterminated
		}
		if rs[i] == ']' && !first {
			return class, i, nil
		}
		first = false

		lo, next, ok := classRune(rs, i, escapes)
		if !ok {
			return nil, 0, unterminated
		}
		i = next
		hi := lo

		if i+2 < len(rs) && rs[i+1] == '-' && rs[i+2] != ']' {
			start := i
			hi, next, ok = classRune(rs, i+2, escapes)
			if !ok {
				return nil, 0, unterminated
			}
			if hi < lo {
				return nil, 0, &PatternError{Pos: start, Msg: "invalid range"}
			}
			i = next
		}
		class.ranges = append(class.ranges, runeRange{lo: lo, hi: hi})
	}
}

// classRune reads one possibly escaped member at rs[i] and returns it with
// the index of its last rune.
func classRune(rs []rune, i int, escapes bool) (rune, int, bool) {
	if rs[i] == '\\' && escapes {
		if i+1 >= len(rs) {
			return 0, 0, false
		}
		return rs[i+1], i + 1, true
	}
	return rs[i], i, true
}

// matchTokens is a single-backtrack wildcard match: on a mismatch only the
// most recent star absorbs one more rune.
func matchTokens(tokens []token, s []rune, fold bool) bool {
	ti, si := 0, 0
	starTi, starSi := -1, 0

	for si < len(s) {
		if ti < len(tokens) {
			t := tokens[ti]
			switch t.kind {
			case tokStar:
				starTi, starSi = ti, si
				ti++
				continue
			case tokAny:
				ti++
				si++
				continue
			case tokLiteral:
				if sameRune(t.r, s[si], fold) {
					ti++
					si++
					continue
				}
			case tokClass:
				if t.class.matches(s[si], fold) {
					ti++
					si++
					continue
				}
			}
		}
		if starTi < 0 {
			return false
		}
		starSi++
		si = starSi
		ti = starTi + 1
	}

	for ti < len(tokens) && tokens[ti].kind == tokStar {
		ti++
	}
	return ti == len(tokens)
}
