// Command ptyexpect runs a YAML expect script against a command spawned
// under a pseudo-terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ptyexpect/ptyexpect/pkg/config"
	"github.com/ptyexpect/ptyexpect/pkg/script"
	"github.com/ptyexpect/ptyexpect/pkg/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		scriptPath string
		stripANSI  bool
		help       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&scriptPath, "script", "", "Path to YAML expect script (required)")
	flag.BoolVar(&stripANSI, "strip-ansi", false, "Strip ANSI escape sequences before matching")
	flag.BoolVarP(&help, "help", "h", false, "Show help message")
	flag.Parse()

	if help {
		printUsage()
		return 0
	}

	if scriptPath == "" {
		fmt.Fprintf(os.Stderr, "ptyexpect: --script is required\n")
		printUsage()
		return 2
	}

	if configPath != "" {
		if err := os.Setenv("PTYEXPECT_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "ptyexpect: error setting config path: %v\n", err)
			return 1
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyexpect: error loading config: %v\n", err)
		return 1
	}
	if stripANSI {
		cfg.StripANSI = true
	}

	sc, err := script.Load(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyexpect: %v\n", err)
		return 1
	}

	sessCfg := cfg.Session()
	if sc.Timeout > 0 {
		sessCfg.DefaultTimeout = sc.Timeout
	}

	// positional arguments override the script's command line
	command, args := sc.Command, sc.Args
	if flag.NArg() > 0 {
		command, args = flag.Arg(0), flag.Args()[1:]
	}

	sess, err := session.Spawn(command, args, sessCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyexpect: %v\n", err)
		return 1
	}
	defer func() { _ = sess.Close() }()

	if err := sc.Run(sess); err != nil {
		fmt.Fprintf(os.Stderr, "ptyexpect: %v\n", err)
		return 1
	}

	code, err := sess.Wait()
	if err != nil && !errors.Is(err, session.ErrClosed) {
		fmt.Fprintf(os.Stderr, "ptyexpect: %v\n", err)
		return 1
	}
	return code
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ptyexpect - scripted automation of interactive commands

Usage: ptyexpect --script <file.yaml> [flags] [command [args...]]

Flags:
  --script path      YAML expect script to run (required)
  --config path      Config file (default: ~/.config/ptyexpect/config.yaml)
  --strip-ansi       Strip ANSI escape sequences before matching
  -h, --help         Show this help

The script names a command and an ordered list of steps; a command given on
the command line overrides the script's. The exit code is the spawned
command's exit code.
`)
}
