// Package session drives interactive subprocess automation: it spawns a
// program under a pseudo-terminal, accumulates its output in a bounded
// buffer and blocks until one of a set of patterns matches, a timeout
// elapses, the stream ends or the buffer fills.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ptyexpect/ptyexpect/pkg/buffer"
	"github.com/ptyexpect/ptyexpect/pkg/pattern"
)

// readChunkSize is the size of a single PTY read.
const readChunkSize = 4096

type state int

const (
	stateActive state = iota
	stateClosed
	stateWaited
)

// readEvent is one delivery from the reader goroutine. A nil-error event
// carries output bytes; an event with err set is a transport failure.
// End of stream is signaled by closing the channel, never by an event, so
// it is distinct from a transient empty read.
type readEvent struct {
	data []byte
	err  error
}

// Session is a spawned process with an attached PTY. At most one expect or
// send call may be in flight at a time; concurrent calls fail with ErrBusy
// rather than corrupting buffer state.
type Session struct {
	config Config
	tr     transport
	buf    *buffer.Manager

	events chan readEvent
	quit   chan struct{}

	mu       sync.Mutex
	st       state
	inFlight bool
	quitOnce sync.Once

	// eof and exitCode are written only under mu or by the single
	// in-flight expect call.
	eof      bool
	exitCode int
}

// Spawn starts command with the given arguments under a new PTY and
// returns an active session. Zero-valued config fields take defaults.
func Spawn(command string, args []string, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if command == "" {
		return nil, errors.New("failed to spawn: empty command")
	}
	tr, err := startPTY(command, args, cfg.PTYRows, cfg.PTYCols)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn %q: %w", command, err)
	}
	return newSession(tr, cfg), nil
}

// newSession wires a session around a transport and starts the read loop.
// Tests use it directly with a fake transport.
func newSession(tr transport, cfg Config) *Session {
	s := &Session{
		config: cfg,
		tr:     tr,
		buf:    buffer.NewManager(cfg.MaxBufferSize, cfg.StripANSI),
		events: make(chan readEvent),
		quit:   make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// readLoop pulls bytes from the transport and hands them to the expect
// loop. The send blocks until an expect call is draining, so the transport
// is never buffered beyond one chunk on this side.
func (s *Session) readLoop() {
	defer close(s.events)
	buf := make([]byte, readChunkSize)
	for {
		n, err := s.tr.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case s.events <- readEvent{data: chunk}:
			case <-s.quit:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case s.events <- readEvent{err: err}:
				case <-s.quit:
				}
			}
			return
		}
	}
}

// Expect waits for a single pattern using the session default timeout.
func (s *Session) Expect(p *pattern.Pattern) (*MatchResult, error) {
	return s.ExpectAny([]*pattern.Pattern{p})
}

// ExpectAny waits for the earliest match of any pattern in the ordered
// list, using the session default timeout. Among candidates the smallest
// start position wins; ties go to the smallest pattern index.
func (s *Session) ExpectAny(patterns []*pattern.Pattern) (*MatchResult, error) {
	return s.expectAny(patterns, s.config.DefaultTimeout)
}

// ExpectTimeout is Expect with a per-call deadline override.
func (s *Session) ExpectTimeout(p *pattern.Pattern, timeout time.Duration) (*MatchResult, error) {
	return s.expectAny([]*pattern.Pattern{p}, timeout)
}

// ExpectAnyTimeout is ExpectAny with a per-call deadline override.
func (s *Session) ExpectAnyTimeout(patterns []*pattern.Pattern, timeout time.Duration) (*MatchResult, error) {
	return s.expectAny(patterns, timeout)
}

func (s *Session) expectAny(patterns []*pattern.Pattern, timeout time.Duration) (*MatchResult, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	set, err := pattern.NewSet(patterns)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if res, done, err := s.scan(set); done {
			return res, err
		}

		select {
		case ev, ok := <-s.events:
			if !ok {
				s.eof = true
				continue
			}
			if ev.err != nil {
				s.markUnusable()
				return nil, fmt.Errorf("read: %w", ev.err)
			}
			s.buf.Append(ev.data)
		case <-timer.C:
			// bytes that arrived alongside the deadline still win:
			// drain and match once more before declaring timeout
			if err := s.drain(); err != nil {
				return nil, err
			}
			if res, done, err := s.scan(set); done {
				return res, err
			}
			if i, ok := set.TimeoutIndex(); ok {
				return s.synthesize(i), nil
			}
			return nil, &TimeoutError{Duration: timeout}
		}
	}
}

// scan runs the pattern set over the current window and decides whether
// the wait is over: a textual match, a synthesized EOF or FullBuffer
// match, a typed error, or nothing yet. A failed scan advances the clean
// offset by however much it proved match-free, and triggers eviction when
// the buffer is at capacity.
func (s *Session) scan(set *pattern.Set) (*MatchResult, bool, error) {
	window := s.buf.Window()
	if c, ok := set.Find(window); ok {
		start := s.buf.CleanOffset() + c.Start
		end := s.buf.CleanOffset() + c.End
		res := &MatchResult{
			PatternIndex: c.Index,
			Matched:      string(s.buf.Bytes()[start:end]),
			Start:        start,
			End:          end,
			Before:       string(s.buf.Before(start)),
			Captures:     c.Captures,
		}
		s.buf.ConsumeThrough(end)
		return res, true, nil
	}
	s.buf.AdvanceCleanOffset(set.CleanAdvance(len(window)))

	if s.eof {
		if i, ok := set.EOFIndex(); ok {
			return s.synthesize(i), true, nil
		}
		return nil, true, ErrEOF
	}
	if s.buf.AtCapacity() {
		if i, ok := set.FullBufferIndex(); ok {
			return s.synthesize(i), true, nil
		}
		if !s.buf.EvictIfNeeded() || s.buf.AtCapacity() {
			return nil, true, &BufferFullError{Size: s.buf.Len()}
		}
	}
	return nil, false, nil
}

// drain appends any already-delivered chunks without blocking.
func (s *Session) drain() error {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.eof = true
				return nil
			}
			if ev.err != nil {
				s.markUnusable()
				return fmt.Errorf("read: %w", ev.err)
			}
			s.buf.Append(ev.data)
		default:
			return nil
		}
	}
}

// synthesize builds the result for a pseudo-pattern: no matched text, the
// whole buffered span as before, and the buffer consumed.
func (s *Session) synthesize(index int) *MatchResult {
	n := s.buf.Len()
	res := &MatchResult{
		PatternIndex: index,
		Start:        n,
		End:          n,
		Before:       string(s.buf.Bytes()),
	}
	s.buf.ConsumeThrough(n)
	return res
}

// Send writes raw bytes to the process. Control characters pass through
// untouched; nothing written is ever matched against. Backpressure is the
// transport's.
func (s *Session) Send(data []byte) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()
	if _, err := s.tr.Write(data); err != nil {
		s.markUnusable()
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// SendLine writes text followed by exactly one newline.
func (s *Session) SendLine(text string) error {
	return s.Send(append([]byte(text), '\n'))
}

// Resize updates the PTY window dimensions seen by the process. It is a
// no-op on transports without a window.
func (s *Session) Resize(rows, cols uint16) error {
	type resizer interface {
		Resize(rows, cols uint16) error
	}
	if r, ok := s.tr.(resizer); ok {
		return r.Resize(rows, cols)
	}
	return nil
}

// IsAlive reports process liveness without blocking.
func (s *Session) IsAlive() bool {
	s.mu.Lock()
	st := s.st
	s.mu.Unlock()
	if st == stateWaited {
		return false
	}
	return s.tr.Alive()
}

// Close releases the PTY and stops the read loop. The process exit status
// remains retrievable through Wait. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.st != stateActive {
		s.mu.Unlock()
		return nil
	}
	s.st = stateClosed
	s.mu.Unlock()
	s.quitOnce.Do(func() { close(s.quit) })
	return s.tr.Close()
}

// Wait blocks until the process exits and returns its exit code. The
// session becomes terminal afterwards; repeated calls return the cached
// status.
func (s *Session) Wait() (int, error) {
	s.mu.Lock()
	if s.st == stateWaited {
		code := s.exitCode
		s.mu.Unlock()
		return code, nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return 0, ErrBusy
	}
	s.inFlight = true
	s.mu.Unlock()

	code, err := s.tr.Wait()
	s.quitOnce.Do(func() { close(s.quit) })
	_ = s.tr.Close()

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.st = stateWaited
		s.exitCode = code
	} else {
		s.st = stateClosed
	}
	s.mu.Unlock()

	if err != nil {
		return -1, err
	}
	return code, nil
}

// begin gates entry into expect/send: the session must be active and no
// other call in flight.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st != stateActive {
		return ErrClosed
	}
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// markUnusable closes the session after a transport failure; subsequent
// operations fail with ErrClosed.
func (s *Session) markUnusable() {
	s.mu.Lock()
	s.st = stateClosed
	s.mu.Unlock()
	s.quitOnce.Do(func() { close(s.quit) })
	_ = s.tr.Close()
}
