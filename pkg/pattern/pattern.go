// Package pattern provides the pattern types and matching engine used to
// locate expected output in a stream of process bytes.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPattern is wrapped by all construction-time pattern errors.
// Matching itself never fails: a pattern that compiles always matches or
// returns no match.
var ErrInvalidPattern = errors.New("invalid pattern")

// Kind identifies the variant of a Pattern.
type Kind int

const (
	// KindExact matches a literal byte sequence.
	KindExact Kind = iota
	// KindRegexp matches a compiled regular expression.
	KindRegexp
	// KindGlob matches shell-style wildcards, compiled to a regular
	// expression at construction.
	KindGlob
	// KindEOF matches when the process output stream ends.
	KindEOF
	// KindTimeout matches when the expect deadline elapses.
	KindTimeout
	// KindFullBuffer matches when the buffer reaches capacity without a
	// textual match.
	KindFullBuffer
	// KindNull matches a literal 0x00 byte.
	KindNull
)

// String returns the kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRegexp:
		return "regexp"
	case KindGlob:
		return "glob"
	case KindEOF:
		return "eof"
	case KindTimeout:
		return "timeout"
	case KindFullBuffer:
		return "fullbuffer"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Pattern is an immutable, matcher-ready pattern. Regexp and glob patterns
// are compiled at construction; matching never compiles anything.
type Pattern struct {
	kind   Kind
	exact  []byte
	skip   []int // bad-character table, exact patterns only
	re     *regexp.Regexp
	source string
}

// Exact returns a pattern matching the literal string s.
// The bad-character skip table for the search is built here, once.
func Exact(s string) (*Pattern, error) {
	return ExactBytes([]byte(s))
}

// ExactBytes returns a pattern matching the literal byte sequence b.
func ExactBytes(b []byte) (*Pattern, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: exact pattern must not be empty", ErrInvalidPattern)
	}
	p := &Pattern{
		kind:  KindExact,
		exact: append([]byte(nil), b...),
		skip:  make([]int, 256),
	}
	for i := range p.skip {
		p.skip[i] = len(b)
	}
	for i := 0; i < len(b)-1; i++ {
		p.skip[b[i]] = len(b) - 1 - i
	}
	return p, nil
}

// Regexp returns a pattern matching the regular expression expr.
// Matching is leftmost-first; capture groups are reported in the result.
func Regexp(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: regexp %q: %v", ErrInvalidPattern, expr, err)
	}
	return &Pattern{kind: KindRegexp, re: re, source: expr}, nil
}

// Glob returns a pattern matching shell-style wildcards: `*`, `?` and
// character classes like `[a-z]` or `[!abc]`. The glob is translated to an
// equivalent regular expression here; afterwards it behaves exactly like a
// Regexp pattern without capture groups.
func Glob(glob string) (*Pattern, error) {
	expr, err := globToRegexp(glob)
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidPattern, glob, err)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidPattern, glob, err)
	}
	return &Pattern{kind: KindGlob, re: re, source: glob}, nil
}

// EOF returns a pattern matching end of the output stream.
func EOF() *Pattern { return &Pattern{kind: KindEOF} }

// Timeout returns a pattern matching expiry of the expect deadline.
func Timeout() *Pattern { return &Pattern{kind: KindTimeout} }

// FullBuffer returns a pattern matching the buffer reaching capacity.
func FullBuffer() *Pattern { return &Pattern{kind: KindFullBuffer} }

// Null returns a pattern matching a literal zero byte.
func Null() *Pattern { return &Pattern{kind: KindNull} }

// Kind returns the pattern variant.
func (p *Pattern) Kind() Kind { return p.kind }

// Source returns the text the pattern was built from: the literal for exact
// patterns, the expression for regexp and glob patterns, empty otherwise.
func (p *Pattern) Source() string {
	if p.kind == KindExact {
		return string(p.exact)
	}
	return p.source
}

// pseudo reports whether the pattern is evaluated outside byte scanning.
func (p *Pattern) pseudo() bool {
	switch p.kind {
	case KindEOF, KindTimeout, KindFullBuffer:
		return true
	}
	return false
}

// maxLen returns the longest possible match length in bytes, and whether
// that length is bounded. Regexp and glob matches are unbounded.
func (p *Pattern) maxLen() (int, bool) {
	switch p.kind {
	case KindExact:
		return len(p.exact), true
	case KindNull:
		return 1, true
	case KindRegexp, KindGlob:
		return 0, false
	default:
		return 0, true
	}
}
