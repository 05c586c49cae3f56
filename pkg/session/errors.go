package session

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for session state misuse.
var (
	// ErrEOF is returned when the output stream ends before a requested
	// pattern matched and no EOF pattern was in the set.
	ErrEOF = errors.New("eof reached before pattern matched")

	// ErrClosed is returned by operations on a closed or waited session.
	ErrClosed = errors.New("session is closed")

	// ErrBusy is returned when an expect or send is attempted while
	// another is in flight. Concurrent calls on one session are a caller
	// error: the buffer's clean-offset and eviction state are not safe
	// under interleaving.
	ErrBusy = errors.New("expect or send already in flight on session")
)

// TimeoutError is returned when no requested pattern matched before the
// deadline and no Timeout pattern was in the set.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for pattern after %v", e.Duration)
}

// BufferFullError is returned when the buffer reaches capacity without a
// match, no FullBuffer pattern was in the set, and eviction could not
// free space. It signals runaway output from the process.
type BufferFullError struct {
	Size int
}

func (e *BufferFullError) Error() string {
	return fmt.Sprintf("buffer full (%d bytes) before pattern matched", e.Size)
}
