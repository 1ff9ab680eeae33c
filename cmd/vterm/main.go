// Package main is a small demo of the vterm engine: a desktop, two
// overlapping shadowed windows and a scrolling log window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/vterm/internal/config"
	"github.com/dshills/vterm/internal/logging"
	"github.com/dshills/vterm/internal/term"
	"github.com/dshills/vterm/internal/vterm"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	loader := config.NewLoader(opts.ConfigPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	log, closeLog, err := newLogger(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	tty := term.NewTTY()
	// Input is drained into keys, so queued keystrokes count as pending.
	var keys <-chan []byte
	ctx, err := vterm.New(vterm.Options{
		Terminal:     tty,
		Config:       cfg,
		Logger:       log,
		InputPending: func() bool { return len(keys) > 0 || tty.InputPending() },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	if err := ctx.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	// Ensure the terminal is restored on all exit paths
	defer ctx.Finish()

	d, err := newDemo(ctx, log)
	if err != nil {
		log.Error("demo setup failed", "error", err)
		return 1
	}

	var updates <-chan config.Update
	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(loader, config.WithDebounce(200*time.Millisecond))
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			defer w.Close()
			updates = w.Updates()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	keys = readInput(tty, log)
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	d.update()
	for {
		select {
		case <-signals:
			return 0
		case in, ok := <-keys:
			if !ok || d.handleInput(in) {
				return 0
			}
		case <-tick.C:
			d.tick()
		case u := <-updates:
			if u.Err != nil {
				d.logf("config reload failed: %v", u.Err)
				log.Warn("config reload failed", "error", u.Err)
				break
			}
			if err := ctx.ApplyConfig(u.Config); err != nil {
				d.logf("config rejected: %v", err)
				break
			}
			d.logf("config reloaded")
		}
		d.update()
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write log output to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vterm - terminal virtualization demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vterm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows    move the front window\n")
		fmt.Fprintf(os.Stderr, "  tab       bring the back window to the front\n")
		fmt.Fprintf(os.Stderr, "  s         scroll the desktop\n")
		fmt.Fprintf(os.Stderr, "  ctrl-l    redraw\n")
		fmt.Fprintf(os.Stderr, "  q         quit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("vterm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		if _, ok := logging.ParseLevel(opts.LogLevel); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	return opts
}

// newLogger builds the logger from the configuration and flags. Without a
// log file nothing is logged: stderr is the screen being drawn.
func newLogger(cfg *config.Config, opts options) (*logging.Logger, func(), error) {
	path := cfg.Logging.File
	if opts.LogFile != "" {
		path = opts.LogFile
	}
	if path == "" {
		return logging.NewNull(), func() {}, nil
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	lvl, _ := logging.ParseLevel(level)

	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	lc := logging.DefaultConfig()
	lc.Level = lvl
	lc.Output = f
	log := logging.New(lc)
	logging.SetDefault(log)
	return log, func() { _ = f.Close() }, nil
}

// readInput forwards terminal input until it fails.
func readInput(r io.Reader, log *logging.Logger) <-chan []byte {
	ch := make(chan []byte, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				in := make([]byte, n)
				copy(in, buf[:n])
				ch <- in
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Warn("input closed", "error", err)
				}
				return
			}
		}
	}()
	return ch
}
