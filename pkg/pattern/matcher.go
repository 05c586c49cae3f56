package pattern

import (
	"bytes"
	"fmt"
	"strings"
)

// match is a single candidate found by one pattern, positions relative to
// the scanned window.
type match struct {
	start    int
	end      int
	captures []string
}

// find locates the leftmost match of the pattern in window. It is stateless
// beyond its arguments: repeated calls on the same window return the same
// result. Pseudo patterns never match here.
func (p *Pattern) find(window []byte) (match, bool) {
	switch p.kind {
	case KindExact:
		return p.findExact(window)
	case KindRegexp, KindGlob:
		return p.findRegexp(window)
	case KindNull:
		if i := bytes.IndexByte(window, 0); i >= 0 {
			return match{start: i, end: i + 1}, true
		}
	}
	return match{}, false
}

// findExact is Boyer-Moore-Horspool search using the skip table built at
// construction. Sublinear in the common case.
func (p *Pattern) findExact(window []byte) (match, bool) {
	m := len(p.exact)
	if len(window) < m {
		return match{}, false
	}
	pos := 0
	for pos+m <= len(window) {
		if bytes.Equal(window[pos:pos+m], p.exact) {
			return match{start: pos, end: pos + m}, true
		}
		pos += p.skip[window[pos+m-1]]
	}
	return match{}, false
}

func (p *Pattern) findRegexp(window []byte) (match, bool) {
	loc := p.re.FindSubmatchIndex(window)
	if loc == nil {
		return match{}, false
	}
	var captures []string
	if p.kind == KindRegexp {
		captures = make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				captures = append(captures, "")
				continue
			}
			captures = append(captures, string(window[loc[i]:loc[i+1]]))
		}
	}
	return match{start: loc[0], end: loc[1], captures: captures}, true
}

// partialSuffix reports whether window ends with a proper prefix of an
// exact pattern, meaning the remainder may still arrive in a later chunk.
func (p *Pattern) partialSuffix(window []byte) bool {
	if p.kind != KindExact {
		return false
	}
	for i := len(p.exact) - 1; i >= 1; i-- {
		if bytes.HasSuffix(window, p.exact[:i]) {
			return true
		}
	}
	return false
}

// globToRegexp translates a glob into an equivalent regular expression.
// `*` matches any run of bytes including newlines, `?` a single byte,
// `[...]` a character class (`[!...]` negates). A backslash escapes the
// next character.
func globToRegexp(glob string) (string, error) {
	var b strings.Builder
	b.WriteString("(?s)")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '\\':
			if i+1 >= len(runes) {
				return "", fmt.Errorf("trailing backslash")
			}
			i++
			b.WriteString(quoteRune(runes[i]))
		case '[':
			j := i + 1
			b.WriteString("[")
			if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
				b.WriteString("^")
				j++
			}
			// a leading ] is a literal member of the class
			if j < len(runes) && runes[j] == ']' {
				b.WriteString(`\]`)
				j++
			}
			closed := false
			for ; j < len(runes); j++ {
				if runes[j] == ']' {
					closed = true
					break
				}
				if runes[j] == '\\' || runes[j] == '[' {
					b.WriteString(`\`)
				}
				b.WriteRune(runes[j])
			}
			if !closed {
				return "", fmt.Errorf("unterminated character class")
			}
			b.WriteString("]")
			i = j
		default:
			b.WriteString(quoteRune(r))
		}
	}
	return b.String(), nil
}

func quoteRune(r rune) string {
	if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
		return `\` + string(r)
	}
	return string(r)
}
