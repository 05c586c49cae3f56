package pattern

import (
	"errors"
)

// ErrEmptySet is returned when a set is built from no patterns.
var ErrEmptySet = errors.New("pattern set must contain at least one pattern")

// Set is an ordered collection of patterns for one expect call. Order is
// significant: when two patterns match at the same position, the one with
// the lower index wins.
type Set struct {
	patterns []*Pattern

	eofIndex        int
	timeoutIndex    int
	fullBufferIndex int

	longest int
	bounded bool
}

// Candidate is a winning textual match, positions relative to the scanned
// window.
type Candidate struct {
	Index    int
	Start    int
	End      int
	Captures []string
}

// NewSet builds a matcher-ready set from an ordered list of patterns.
// All compilation already happened in the pattern constructors, so the only
// failure modes are an empty list or a nil entry.
func NewSet(patterns []*Pattern) (*Set, error) {
	if len(patterns) == 0 {
		return nil, ErrEmptySet
	}
	s := &Set{
		patterns:        patterns,
		eofIndex:        -1,
		timeoutIndex:    -1,
		fullBufferIndex: -1,
		bounded:         true,
	}
	for i, p := range patterns {
		if p == nil {
			return nil, errors.New("pattern set contains a nil pattern")
		}
		switch p.kind {
		case KindEOF:
			if s.eofIndex < 0 {
				s.eofIndex = i
			}
		case KindTimeout:
			if s.timeoutIndex < 0 {
				s.timeoutIndex = i
			}
		case KindFullBuffer:
			if s.fullBufferIndex < 0 {
				s.fullBufferIndex = i
			}
		default:
			n, bounded := p.maxLen()
			if !bounded {
				s.bounded = false
			} else if n > s.longest {
				s.longest = n
			}
		}
	}
	return s, nil
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int { return len(s.patterns) }

// Pattern returns the pattern at index i.
func (s *Set) Pattern(i int) *Pattern { return s.patterns[i] }

// EOFIndex returns the index of the first EOF pattern, if present.
func (s *Set) EOFIndex() (int, bool) { return s.eofIndex, s.eofIndex >= 0 }

// TimeoutIndex returns the index of the first Timeout pattern, if present.
func (s *Set) TimeoutIndex() (int, bool) { return s.timeoutIndex, s.timeoutIndex >= 0 }

// FullBufferIndex returns the index of the first FullBuffer pattern, if present.
func (s *Set) FullBufferIndex() (int, bool) { return s.fullBufferIndex, s.fullBufferIndex >= 0 }

// Find runs every textual pattern against the full window and selects the
// winner: smallest start position, ties broken by smallest pattern index.
// It is idempotent: an unchanged window yields an identical result.
func (s *Set) Find(window []byte) (Candidate, bool) {
	best := Candidate{Index: -1}
	for i, p := range s.patterns {
		if p.pseudo() {
			continue
		}
		m, ok := p.find(window)
		if !ok {
			continue
		}
		// iteration is in ascending index order, so a strict < keeps
		// the declared priority on equal starts
		if best.Index < 0 || m.start < best.Start {
			best = Candidate{Index: i, Start: m.start, End: m.end, Captures: m.captures}
		}
	}
	return best, best.Index >= 0
}

// CleanAdvance returns how many leading window bytes a failed scan has
// proven match-free: window length minus (longest pattern length - 1),
// since a match could still start that close to the end and complete once
// more data arrives. A set containing any unbounded pattern (regexp, glob)
// proves nothing and returns 0.
func (s *Set) CleanAdvance(windowLen int) int {
	if !s.bounded {
		return 0
	}
	n := windowLen - (s.longest - 1)
	if n < 0 {
		n = 0
	}
	if n > windowLen {
		n = windowLen
	}
	return n
}
