// Package config loads session configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ptyexpect/ptyexpect/pkg/session"
)

// Config holds all configuration for ptyexpect.
type Config struct {
	DefaultTimeout time.Duration `yaml:"default_timeout" env:"PTYEXPECT_TIMEOUT"`
	MaxBufferSize  int           `yaml:"max_buffer_size" env:"PTYEXPECT_MAX_BUFFER_SIZE"`
	StripANSI      bool          `yaml:"strip_ansi" env:"PTYEXPECT_STRIP_ANSI"`
	PTYRows        uint16        `yaml:"pty_rows" env:"PTYEXPECT_PTY_ROWS"`
	PTYCols        uint16        `yaml:"pty_cols" env:"PTYEXPECT_PTY_COLS"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout: session.DefaultTimeout,
		MaxBufferSize:  session.DefaultMaxBufferSize,
		PTYRows:        session.DefaultPTYRows,
		PTYCols:        session.DefaultPTYCols,
	}
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Session converts the loaded configuration into session options.
func (c *Config) Session() session.Config {
	return session.Config{
		DefaultTimeout: c.DefaultTimeout,
		MaxBufferSize:  c.MaxBufferSize,
		StripANSI:      c.StripANSI,
		PTYRows:        c.PTYRows,
		PTYCols:        c.PTYCols,
	}
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("PTYEXPECT_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ptyexpect", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "ptyexpect", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if timeout := os.Getenv("PTYEXPECT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PTYEXPECT_TIMEOUT: %w", err)
		}
		cfg.DefaultTimeout = d
	}

	if size := os.Getenv("PTYEXPECT_MAX_BUFFER_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid PTYEXPECT_MAX_BUFFER_SIZE: %w", err)
		}
		cfg.MaxBufferSize = n
	}

	if strip := os.Getenv("PTYEXPECT_STRIP_ANSI"); strip != "" {
		switch strip {
		case "true", "1", "yes":
			cfg.StripANSI = true
		case "false", "0", "no":
			cfg.StripANSI = false
		default:
			return fmt.Errorf("invalid PTYEXPECT_STRIP_ANSI value: %q (use true/false)", strip)
		}
	}

	if rows := os.Getenv("PTYEXPECT_PTY_ROWS"); rows != "" {
		n, err := strconv.ParseUint(rows, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid PTYEXPECT_PTY_ROWS: %w", err)
		}
		cfg.PTYRows = uint16(n)
	}

	if cols := os.Getenv("PTYEXPECT_PTY_COLS"); cols != "" {
		n, err := strconv.ParseUint(cols, 10, 16)
		if err != nil {
			return fmt.Errorf("invalid PTYEXPECT_PTY_COLS: %w", err)
		}
		cfg.PTYCols = uint16(n)
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.DefaultTimeout <= 0 {
		return fmt.Errorf("default_timeout must be positive")
	}

	if cfg.MaxBufferSize <= 0 {
		return fmt.Errorf("max_buffer_size must be positive")
	}

	if cfg.PTYRows == 0 || cfg.PTYCols == 0 {
		return fmt.Errorf("pty_rows and pty_cols must be positive")
	}

	return nil
}
