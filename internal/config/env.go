package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "VTERM_"

// envSetter applies one environment value to a config.
type envSetter func(cfg *Config, value string) error

// EnvLoader applies environment variable overrides.
type EnvLoader struct {
	prefix  string
	mapping map[string]envSetter
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates an environment loader for the given prefix.
// The prefix should include the trailing underscore (e.g., "VTERM_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader reading from lookup instead of the process environment.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = lookup
	return l
}

// defaultEnvMapping maps variable suffixes to their setters.
func defaultEnvMapping() map[string]envSetter {
	return map[string]envSetter{
		"TERM": func(c *Config, v string) error {
			c.Terminal.Name = v
			return nil
		},
		"ENCODING": func(c *Config, v string) error {
			c.Terminal.Encoding = strings.ToLower(v)
			return nil
		},
		"TABSTOP": func(c *Config, v string) error {
			return parseInt(v, &c.Terminal.TabStop)
		},
		"BCE": func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Terminal.BCE = &b
			return nil
		},
		"NEWLINE_GLITCH": func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Terminal.NewlineGlitch = &b
			return nil
		},
		"ALT_SCREEN": func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Terminal.AltScreen = b
			return nil
		},
		"DISABLE_CAPS": func(c *Config, v string) error {
			c.Capabilities.Disable = splitList(v)
			return nil
		},
		"MAX_SKIP": func(c *Config, v string) error {
			return parseInt(v, &c.Scheduler.MaxSkip)
		},
		"BUFFER_SIZE": func(c *Config, v string) error {
			return parseInt(v, &c.Output.BufferSize)
		},
		"LOG_LEVEL": func(c *Config, v string) error {
			c.Logging.Level = v
			return nil
		},
		"LOG_FILE": func(c *Config, v string) error {
			c.Logging.File = v
			return nil
		},
	}
}

// Apply overrides cfg with every mapped variable that is set.
// Empty values count as set.
func (l *EnvLoader) Apply(cfg *Config) error {
	for suffix, set := range l.mapping {
		name := l.prefix + suffix
		val, ok := l.lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, val); err != nil {
			return &ValidationError{Path: name, Message: err.Error(), Value: val}
		}
	}
	return nil
}

func parseInt(s string, dst *int) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not an integer")
	}
	*dst = n
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
