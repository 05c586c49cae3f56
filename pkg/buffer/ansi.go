package buffer

// Stripper removes ANSI escape sequences from a stream of chunks. It keeps
// the bytes of an escape sequence that straddles a chunk boundary until the
// sequence completes, so a read that splits an escape mid-sequence never
// leaks partial control bytes into the output.
type Stripper struct {
	pending []byte
}

// maxPending bounds the held-back bytes; a "sequence" that runs longer is
// malformed and gets dropped wholesale.
const maxPending = 256

// Strip removes ANSI escape sequences from data, treating it as a complete
// stream: a trailing incomplete escape sequence is discarded.
func Strip(data []byte) []byte {
	var s Stripper
	return s.Feed(data)
}

// Feed strips the next chunk and returns the printable bytes. Handles CSI
// (ESC [ ... letter), OSC (ESC ] ... BEL or ESC \), character set selection
// (ESC ( X, ESC ) X) and two-byte escapes.
func (s *Stripper) Feed(data []byte) []byte {
	if len(s.pending) > 0 {
		data = append(s.pending, data...)
		s.pending = nil
	}

	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		if data[i] != 0x1b {
			out = append(out, data[i])
			i++
			continue
		}
		n, complete := escapeLen(data[i:])
		if !complete {
			if len(data)-i > maxPending {
				// malformed unterminated sequence; drop it
				break
			}
			s.pending = append([]byte(nil), data[i:]...)
			break
		}
		i += n
	}
	return out
}

// escapeLen returns the length of the escape sequence at the start of data
// and whether the sequence is complete within data. data[0] is ESC.
func escapeLen(data []byte) (int, bool) {
	if len(data) < 2 {
		return 0, false
	}
	switch data[1] {
	case '[': // CSI: parameters then a letter terminator
		for i := 2; i < len(data); i++ {
			if isASCIILetter(data[i]) {
				return i + 1, true
			}
		}
		return 0, false
	case ']': // OSC: terminated by BEL or ST (ESC \)
		for i := 2; i < len(data); i++ {
			if data[i] == 0x07 {
				return i + 1, true
			}
			if data[i] == 0x1b {
				if i+1 < len(data) {
					if data[i+1] == '\\' {
						return i + 2, true
					}
					// a new escape cuts the OSC short
					return i, true
				}
				return 0, false
			}
		}
		return 0, false
	case '(', ')': // character set selection: one designator byte
		if len(data) >= 3 {
			return 3, true
		}
		return 0, false
	default: // two-byte escape
		return 2, true
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
