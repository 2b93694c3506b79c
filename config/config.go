// Package config holds the settings of an interpreter run. Settings come from
// defaults, an optional YAML or TOML file and command line flags, in that
// order.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/asciiascii/core"
)

// MaxDebugLevel is the most verbose debug level.
const MaxDebugLevel = 3

// Config describes how programs are run.
type Config struct {
	// DebugLevel 0 only reports problems, 1 also prints the code, 2 adds
	// status messages and 3 traces every instruction and dumps the state.
	DebugLevel    int     `yaml:"debug_level" toml:"debug_level"`
	Optimize      bool    `yaml:"optimize" toml:"optimize"`
	RequireNumber bool    `yaml:"require_number" toml:"require_number"`
	BankLimit     int     `yaml:"bank_limit" toml:"bank_limit"`
	StepLimit     uint64  `yaml:"step_limit" toml:"step_limit"`
	FreqGHz       float64 `yaml:"freq_ghz" toml:"freq_ghz"`
	LogFormat     string  `yaml:"log_format" toml:"log_format"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Optimize:      true,
		RequireNumber: true,
		FreqGHz:       1,
		LogFormat:     "text",
	}
}

// Load reads a config file on top of the defaults. The format follows the
// file extension.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}

	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.DebugLevel < 0 || c.DebugLevel > MaxDebugLevel {
		return fmt.Errorf("invalid debug level: %d (must be 0 to %d)", c.DebugLevel, MaxDebugLevel)
	}

	if c.BankLimit < 0 {
		return fmt.Errorf("bank limit must be non-negative, got %d", c.BankLimit)
	}

	if c.FreqGHz <= 0 {
		return fmt.Errorf("frequency must be positive, got %g", c.FreqGHz)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// LogLevel maps the debug level to the lowest level that is logged.
func (c Config) LogLevel() slog.Level {
	switch {
	case c.DebugLevel >= 3:
		return core.LevelTrace
	case c.DebugLevel == 2:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// PrintCode reports whether listings of the code should be printed.
func (c Config) PrintCode() bool {
	return c.DebugLevel >= 1
}

// PrintState reports whether the final state should be dumped.
func (c Config) PrintState() bool {
	return c.DebugLevel >= 3
}

// Freq returns the frequency of the core.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FreqGHz) * sim.GHz
}

// NewLogger creates a logger that writes to w in the configured format at
// the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
