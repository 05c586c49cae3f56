// Package buffer manages the live byte buffer that process output is
// matched against: ANSI stripping on entry, a clean offset marking the
// prefix already proven match-free, and a bounded-memory eviction policy.
package buffer

// evictRetainRatio is the fraction of the buffer retained on eviction:
// the oldest two-thirds are discarded, the newest third kept.
const evictRetainRatio = 3

// Manager owns the searchable byte buffer for one session. It is not safe
// for concurrent use; the owning session serializes access.
type Manager struct {
	buf       []byte
	cleanOff  int
	maxSize   int
	stripANSI bool
	stripper  Stripper
}

// NewManager returns a manager holding at most maxSize bytes. When
// stripANSI is set, escape sequences are removed before bytes enter the
// buffer; the stripped bytes are unrecoverable and matching only ever sees
// the stripped stream.
func NewManager(maxSize int, stripANSI bool) *Manager {
	return &Manager{
		buf:       make([]byte, 0, maxSize),
		maxSize:   maxSize,
		stripANSI: stripANSI,
	}
}

// Append adds newly arrived bytes to the buffer, stripping ANSI sequences
// first when configured. The buffer may transiently exceed its maximum
// size here; the caller decides between eviction and a full-buffer result.
func (m *Manager) Append(data []byte) {
	if m.stripANSI {
		data = m.stripper.Feed(data)
	}
	m.buf = append(m.buf, data...)
}

// Len returns the current buffer length.
func (m *Manager) Len() int { return len(m.buf) }

// Bytes returns the full buffered span since the last consume point.
func (m *Manager) Bytes() []byte { return m.buf }

// Window returns the searchable range, starting at the clean offset.
func (m *Manager) Window() []byte { return m.buf[m.cleanOff:] }

// CleanOffset returns the prefix length already proven match-free.
func (m *Manager) CleanOffset() int { return m.cleanOff }

// AdvanceCleanOffset moves the clean offset forward by n bytes after a
// scan proved no pattern can start within the first n bytes of the window.
func (m *Manager) AdvanceCleanOffset(n int) {
	if n <= 0 {
		return
	}
	m.cleanOff += n
	if m.cleanOff > len(m.buf) {
		m.cleanOff = len(m.buf)
	}
}

// Before returns the bytes preceding pos, the span reported as "before"
// when a match ends a wait.
func (m *Manager) Before(pos int) []byte {
	if pos > len(m.buf) {
		pos = len(m.buf)
	}
	return m.buf[:pos]
}

// ConsumeThrough discards everything up to and including a matched range's
// end and resets the clean offset. The next wait starts from the bytes
// that followed the match.
func (m *Manager) ConsumeThrough(end int) {
	if end > len(m.buf) {
		end = len(m.buf)
	}
	n := copy(m.buf, m.buf[end:])
	m.buf = m.buf[:n]
	m.cleanOff = 0
}

// AtCapacity reports whether the buffer has reached its maximum size.
func (m *Manager) AtCapacity() bool { return len(m.buf) >= m.maxSize }

// EvictIfNeeded frees space once the buffer is at capacity: the oldest
// two-thirds are discarded and the newest third retained, resetting the
// clean offset. This is a deliberate trade-off: a pattern that could only
// occur in the discarded span becomes unmatchable. Returns whether an
// eviction happened.
func (m *Manager) EvictIfNeeded() bool {
	if !m.AtCapacity() {
		return false
	}
	keep := len(m.buf) / evictRetainRatio
	n := copy(m.buf, m.buf[len(m.buf)-keep:])
	m.buf = m.buf[:n]
	m.cleanOff = 0
	return true
}
