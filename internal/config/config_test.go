package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Terminal.TabStop != 8 {
		t.Errorf("TabStop = %d, want 8", cfg.Terminal.TabStop)
	}
	if cfg.Scheduler.MaxSkip != 8 {
		t.Errorf("MaxSkip = %d, want 8", cfg.Scheduler.MaxSkip)
	}
	if cfg.Output.BufferSize != 32*1024 {
		t.Errorf("BufferSize = %d, want 32768", cfg.Output.BufferSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoaderWithFS(fstest.MapFS{}, "vterm.toml", NewEnvLoaderWithLookup(EnvPrefix, noEnv))
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Terminal.Encoding != EncodingUTF8 {
		t.Errorf("Encoding = %q, want utf8", cfg.Terminal.Encoding)
	}
}

func TestLoadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"vterm.toml": &fstest.MapFile{Data: []byte(`
[terminal]
name = "linux"
encoding = "pc"
tabstop = 4
bce = true

[capabilities]
disable = ["rep", "ech"]

[scheduler]
max_skip = 3
`)},
	}
	l := NewLoaderWithFS(fsys, "vterm.toml", NewEnvLoaderWithLookup(EnvPrefix, noEnv))
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Terminal.Name != "linux" || cfg.Terminal.Encoding != EncodingPC || cfg.Terminal.TabStop != 4 {
		t.Errorf("terminal = %+v", cfg.Terminal)
	}
	if cfg.Terminal.BCE == nil || !*cfg.Terminal.BCE {
		t.Error("BCE override not applied")
	}
	if cfg.Terminal.NewlineGlitch != nil {
		t.Error("NewlineGlitch should stay unset")
	}
	if !cfg.Disabled("rep") || !cfg.Disabled("ech") || cfg.Disabled("el") {
		t.Errorf("Disable = %v", cfg.Capabilities.Disable)
	}
	if cfg.Scheduler.MaxSkip != 3 {
		t.Errorf("MaxSkip = %d, want 3", cfg.Scheduler.MaxSkip)
	}
	if cfg.Output.BufferSize != 32*1024 {
		t.Error("unset keys should keep defaults")
	}
}

func TestLoadParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": &fstest.MapFile{Data: []byte("[terminal\nname = 1\n")},
	}
	_, err := NewLoaderWithFS(fsys, "bad.toml", nil).Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Source != "bad.toml" || perr.Line == 0 {
		t.Errorf("ParseError = %+v", perr)
	}
	if msg := perr.Error(); !strings.HasPrefix(msg, "config: bad.toml:") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"vterm.toml": &fstest.MapFile{Data: []byte("[terminal]\ncolour = 1\n")},
	}
	_, err := NewLoaderWithFS(fsys, "vterm.toml", nil).Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"tabstop", func(c *Config) { c.Terminal.TabStop = 0 }, "terminal.tabstop"},
		{"encoding", func(c *Config) { c.Terminal.Encoding = "ebcdic" }, "terminal.encoding"},
		{"max skip", func(c *Config) { c.Scheduler.MaxSkip = -1 }, "scheduler.max_skip"},
		{"buffer", func(c *Config) { c.Output.BufferSize = 0 }, "output.buffer_size"},
		{"capability", func(c *Config) { c.Capabilities.Disable = []string{"nope"} }, "capabilities.disable"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("Validate() = %v, want ErrInvalidValue", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("Validate() path = %v, want %s", err, tt.path)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"VTERM_TERM":         "screen",
		"VTERM_TABSTOP":      "2",
		"VTERM_BCE":          "no",
		"VTERM_DISABLE_CAPS": "rep, el1",
		"VTERM_LOG_LEVEL":    "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg, err := NewLoaderWithFS(fstest.MapFS{}, "", NewEnvLoaderWithLookup(EnvPrefix, lookup)).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Terminal.Name != "screen" || cfg.Terminal.TabStop != 2 {
		t.Errorf("terminal = %+v", cfg.Terminal)
	}
	if cfg.Terminal.BCE == nil || *cfg.Terminal.BCE {
		t.Error("VTERM_BCE=no not applied")
	}
	if len(cfg.Capabilities.Disable) != 2 || cfg.Capabilities.Disable[1] != "el1" {
		t.Errorf("Disable = %v", cfg.Capabilities.Disable)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestEnvBadValue(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "VTERM_MAX_SKIP" {
			return "many", true
		}
		return "", false
	}
	_, err := NewLoaderWithFS(fstest.MapFS{}, "", NewEnvLoaderWithLookup(EnvPrefix, lookup)).Load()
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Load() error = %v, want ErrInvalidValue", err)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vterm.toml")
	if err := os.WriteFile(path, []byte("[terminal]\ntabstop = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoaderWithFS(OSFS{}, path, NewEnvLoaderWithLookup(EnvPrefix, noEnv))
	w, err := NewWatcher(l, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[terminal]\ntabstop = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case u := <-w.Updates():
		if u.Err != nil {
			t.Fatalf("update error = %v", u.Err)
		}
		if u.Config.Terminal.TabStop != 2 {
			t.Errorf("TabStop = %d, want 2", u.Config.Terminal.TabStop)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	dir := t.TempDir()
	l := NewLoaderWithFS(OSFS{}, filepath.Join(dir, "vterm.toml"), nil)
	w, err := NewWatcher(l)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("second Close() = %v, want ErrWatcherClosed", err)
	}
}
