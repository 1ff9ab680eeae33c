package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileSystem is an abstraction for file reads so tests can use fstest.MapFS.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader builds a Config from defaults, a TOML file and the environment.
type Loader struct {
	fs   FileSystem
	path string
	env  *EnvLoader
}

// NewLoader creates a loader for path reading VTERM_* variables.
func NewLoader(path string) *Loader {
	return &Loader{
		fs:   OSFS{},
		path: path,
		env:  NewEnvLoader(EnvPrefix),
	}
}

// NewLoaderWithFS creates a loader with a custom file system and env loader.
func NewLoaderWithFS(fsys FileSystem, path string, env *EnvLoader) *Loader {
	return &Loader{fs: fsys, path: path, env: env}
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the validated configuration.
// A missing file is not an error; defaults and environment still apply.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.path != "" {
		data, err := l.fs.ReadFile(l.path)
		switch {
		case err == nil:
			if err := decode(l.path, data, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
		}
	}

	if l.env != nil {
		if err := l.env.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses TOML data over cfg, rejecting unknown keys.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Source: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}
