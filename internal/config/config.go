// Package config loads the engine configuration from a TOML file with
// environment overrides, and watches the file for live reload.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Encoding names accepted by terminal.encoding.
const (
	EncodingUTF8   = "utf8"
	EncodingVT100  = "vt100"
	EncodingPC     = "pc"
	EncodingLatin1 = "latin1"
	EncodingASCII  = "ascii"
)

// Config is the complete engine configuration.
type Config struct {
	Terminal     TerminalConfig     `toml:"terminal"`
	Capabilities CapabilitiesConfig `toml:"capabilities"`
	Scheduler    SchedulerConfig    `toml:"scheduler"`
	Output       OutputConfig       `toml:"output"`
	Logging      LoggingConfig      `toml:"logging"`
}

// TerminalConfig describes the output terminal.
type TerminalConfig struct {
	// Name is the terminfo entry name. Defaults to $TERM.
	Name string `toml:"name"`
	// Encoding selects how glyphs are encoded on the wire.
	Encoding string `toml:"encoding"`
	// TabStop is the tab width used by Print.
	TabStop int `toml:"tabstop"`
	// BCE overrides background-color-erase detection when set.
	BCE *bool `toml:"bce"`
	// NewlineGlitch overrides the xenl (eat newline glitch) flag when set.
	NewlineGlitch *bool `toml:"newline_glitch"`
	// AltScreen switches to the alternate screen for the session.
	AltScreen bool `toml:"alt_screen"`
}

// CapabilitiesConfig switches individual capabilities off.
type CapabilitiesConfig struct {
	// Disable lists capability names (for example "ech", "rep", "el1").
	Disable []string `toml:"disable"`
}

// SchedulerConfig tunes update pacing.
type SchedulerConfig struct {
	// MaxSkip is the number of consecutive deferred passes before one is forced.
	MaxSkip int `toml:"max_skip"`
}

// OutputConfig tunes the output sink.
type OutputConfig struct {
	// BufferSize is the byte threshold at which the sink flushes on its own.
	BufferSize int `toml:"buffer_size"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File is the log destination. Empty means stderr.
	File string `toml:"file"`
}

// CapabilityNames lists the names accepted in capabilities.disable.
var CapabilityNames = []string{
	"clear", "ed", "el", "el1", "ech", "rep", "ind", "ri",
	"cub1", "cuf", "cub", "cup", "hpa", "vpa", "cuu", "cud",
	"smam", "rmam", "ich1", "smacs", "rmacs", "civis", "cnorm",
}

// Default returns the built-in configuration.
func Default() *Config {
	name := os.Getenv("TERM")
	if name == "" {
		name = "xterm"
	}
	return &Config{
		Terminal: TerminalConfig{
			Name:      name,
			Encoding:  EncodingUTF8,
			TabStop:   8,
			AltScreen: true,
		},
		Scheduler: SchedulerConfig{MaxSkip: 8},
		Output:    OutputConfig{BufferSize: 32 * 1024},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Validate checks every value and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Terminal.Name) == "" {
		return &ValidationError{Path: "terminal.name", Message: "must not be empty", Value: c.Terminal.Name}
	}
	switch c.Terminal.Encoding {
	case EncodingUTF8, EncodingVT100, EncodingPC, EncodingLatin1, EncodingASCII:
	default:
		return &ValidationError{Path: "terminal.encoding", Message: "unknown encoding", Value: c.Terminal.Encoding}
	}
	if c.Terminal.TabStop <= 0 {
		return &ValidationError{Path: "terminal.tabstop", Message: "must be positive", Value: c.Terminal.TabStop}
	}
	if c.Scheduler.MaxSkip < 0 {
		return &ValidationError{Path: "scheduler.max_skip", Message: "must not be negative", Value: c.Scheduler.MaxSkip}
	}
	if c.Output.BufferSize <= 0 {
		return &ValidationError{Path: "output.buffer_size", Message: "must be positive", Value: c.Output.BufferSize}
	}
	for _, name := range c.Capabilities.Disable {
		if !slices.Contains(CapabilityNames, name) {
			return &ValidationError{Path: "capabilities.disable", Message: "unknown capability", Value: name}
		}
	}
	if c.Logging.Level != "" {
		switch strings.ToLower(c.Logging.Level) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level}
		}
	}
	return nil
}

// Disabled reports whether the named capability was switched off.
func (c *Config) Disabled(name string) bool {
	return slices.Contains(c.Capabilities.Disable, name)
}

// String summarizes the configuration for log output.
func (c *Config) String() string {
	return fmt.Sprintf("term=%s encoding=%s tabstop=%d max_skip=%d buffer=%d",
		c.Terminal.Name, c.Terminal.Encoding, c.Terminal.TabStop,
		c.Scheduler.MaxSkip, c.Output.BufferSize)
}
