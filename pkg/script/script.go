// Package script runs a declarative YAML list of expect/send steps against
// a session. It is a thin consumer of the session API: each step maps to
// exactly one expect or send call.
package script

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ptyexpect/ptyexpect/pkg/pattern"
	"github.com/ptyexpect/ptyexpect/pkg/session"
)

// Script is a command plus an ordered list of steps to run against it.
type Script struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
	Steps   []Step        `yaml:"steps"`
}

// Step is a single interaction. Exactly one action field must be set.
type Step struct {
	// Expect waits for an exact string.
	Expect string `yaml:"expect"`
	// Regex waits for a regular expression match.
	Regex string `yaml:"regex"`
	// Glob waits for a shell-style wildcard match.
	Glob string `yaml:"glob"`
	// EOF waits for the process output to end.
	EOF bool `yaml:"eof"`
	// SendLine sends text followed by a newline.
	SendLine *string `yaml:"send_line"`
	// Send sends raw text without a newline.
	Send *string `yaml:"send"`
	// Timeout overrides the script timeout for this step's expect.
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	// #nosec G304 - the script path is given by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Parse parses script YAML and validates every step.
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if sc.Command == "" {
		return nil, fmt.Errorf("script has no command")
	}
	for i, step := range sc.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

func (s Step) validate() error {
	actions := 0
	if s.Expect != "" {
		actions++
	}
	if s.Regex != "" {
		actions++
	}
	if s.Glob != "" {
		actions++
	}
	if s.EOF {
		actions++
	}
	if s.SendLine != nil {
		actions++
	}
	if s.Send != nil {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("want exactly one of expect, regex, glob, eof, send, send_line, got %d", actions)
	}
	// compile eagerly so a bad expression fails before anything runs
	if s.Regex != "" {
		if _, err := pattern.Regexp(s.Regex); err != nil {
			return err
		}
	}
	if s.Glob != "" {
		if _, err := pattern.Glob(s.Glob); err != nil {
			return err
		}
	}
	return nil
}

// Run executes every step in order against sess. It stops at the first
// failing step.
func (sc *Script) Run(sess *session.Session) error {
	for i, step := range sc.Steps {
		if err := sc.runStep(sess, step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (sc *Script) runStep(sess *session.Session, step Step) error {
	switch {
	case step.SendLine != nil:
		return sess.SendLine(*step.SendLine)
	case step.Send != nil:
		return sess.Send([]byte(*step.Send))
	}

	p, err := step.pattern()
	if err != nil {
		return err
	}
	timeout := step.Timeout
	if timeout == 0 {
		timeout = sc.Timeout
	}
	if timeout == 0 {
		_, err = sess.Expect(p)
	} else {
		_, err = sess.ExpectTimeout(p, timeout)
	}
	return err
}

func (s Step) pattern() (*pattern.Pattern, error) {
	switch {
	case s.Expect != "":
		return pattern.Exact(s.Expect)
	case s.Regex != "":
		return pattern.Regexp(s.Regex)
	case s.Glob != "":
		return pattern.Glob(s.Glob)
	case s.EOF:
		return pattern.EOF(), nil
	}
	return nil, fmt.Errorf("step has no pattern")
}
