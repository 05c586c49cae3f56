package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// transport is the byte-stream source/sink a session drives. The real
// implementation wraps a PTY; tests substitute a scripted fake.
type transport interface {
	io.ReadWriteCloser
	// Wait blocks until the process exits and returns its exit code.
	Wait() (int, error)
	// Alive reports process liveness without blocking.
	Alive() bool
}

// ptyTransport runs a process under a pseudo-terminal.
type ptyTransport struct {
	cmd    *exec.Cmd
	master *os.File

	mu     sync.Mutex
	closed bool
}

// Ensure ptyTransport implements transport.
var _ transport = (*ptyTransport)(nil)

// startPTY spawns command under a new PTY with the configured dimensions.
func startPTY(command string, args []string, rows, cols uint16) (*ptyTransport, error) {
	cmd := exec.Command(command, args...)
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}
	return &ptyTransport{cmd: cmd, master: master}, nil
}

// Read delivers process output. Linux reports the child closing its side of
// the PTY as EIO; that is the stream's end, not a failure.
func (t *ptyTransport) Read(p []byte) (int, error) {
	n, err := t.master.Read(p)
	if err != nil && isPTYClosed(err) {
		return n, io.EOF
	}
	return n, err
}

func (t *ptyTransport) Write(p []byte) (int, error) {
	return t.master.Write(p)
}

// Close releases the master side of the PTY. The child sees hangup; its
// exit status remains retrievable through Wait.
func (t *ptyTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.master.Close()
}

// Wait reaps the process and returns its exit code. An exec.ExitError is
// the process exiting nonzero, not an I/O failure.
func (t *ptyTransport) Wait() (int, error) {
	err := t.cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return -1, fmt.Errorf("failed to wait for process: %w", err)
	}
	return t.cmd.ProcessState.ExitCode(), nil
}

// Alive polls process liveness with a null signal.
func (t *ptyTransport) Alive() bool {
	if t.cmd.Process == nil {
		return false
	}
	if t.cmd.ProcessState != nil {
		return false
	}
	return t.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// Resize updates the PTY dimensions seen by the process.
func (t *ptyTransport) Resize(rows, cols uint16) error {
	return pty.Setsize(t.master, &pty.Winsize{Rows: rows, Cols: cols})
}

// isPTYClosed reports whether a read error means the slave side is gone.
func isPTYClosed(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.EOF)
}
