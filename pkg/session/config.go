package session

import (
	"fmt"
	"time"
)

// Defaults applied by DefaultConfig and to zero-valued Config fields.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxBufferSize = 8192
	DefaultPTYRows       = 24
	DefaultPTYCols       = 80
)

// Config holds session options, immutable once the session is spawned.
type Config struct {
	// DefaultTimeout bounds each expect call unless overridden per call.
	DefaultTimeout time.Duration

	// MaxBufferSize caps the matching buffer in bytes. It must exceed
	// the longest pattern expected to match.
	MaxBufferSize int

	// StripANSI removes ANSI escape sequences before bytes enter the
	// matching buffer. The stripped bytes are unrecoverable.
	StripANSI bool

	// PTYRows and PTYCols are the terminal dimensions presented to the
	// spawned process.
	PTYRows uint16
	PTYCols uint16
}

// DefaultConfig returns the default session configuration: 30s timeout,
// 8192-byte buffer, 24x80 terminal, ANSI stripping off.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: DefaultTimeout,
		MaxBufferSize:  DefaultMaxBufferSize,
		PTYRows:        DefaultPTYRows,
		PTYCols:        DefaultPTYCols,
	}
}

// withDefaults fills zero-valued fields so a literal Config works.
func (c Config) withDefaults() Config {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.MaxBufferSize == 0 {
		c.MaxBufferSize = DefaultMaxBufferSize
	}
	if c.PTYRows == 0 {
		c.PTYRows = DefaultPTYRows
	}
	if c.PTYCols == 0 {
		c.PTYCols = DefaultPTYCols
	}
	return c
}

func (c Config) validate() error {
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("default timeout must be positive, got %v", c.DefaultTimeout)
	}
	if c.MaxBufferSize < 0 {
		return fmt.Errorf("max buffer size must be positive, got %d", c.MaxBufferSize)
	}
	return nil
}
