// Package main provides the entry point for cozzle, a gradient puzzle:
// restore a shuffled row of colors by swapping cells. The board is drawn
// in an Ebiten window, or in the terminal with -tui.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/internal/profiling"
	"github.com/opd-ai/go-cozzle/pkg/cozzle"
)

// Version is the current version of cozzle.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	version    bool
	tui        bool
	cells      int
	seed       uint64
	watch      bool
	logLevel   string
	logJSON    bool
	logFile    string
	debugAddr  string
	cpuProfile string
	memProfile string
	convert    string
	check      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("cozzle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "c", "", "Path to configuration file (Lua or YAML); defaults apply when empty")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.BoolVar(&o.tui, "tui", false, "Play in the terminal instead of a window")
	fs.IntVar(&o.cells, "cells", 0, "Number of cells, overriding the configuration")
	fs.Uint64Var(&o.seed, "seed", 0, "Generator seed, overriding the configuration (0 keeps the configured seed)")
	fs.BoolVar(&o.watch, "watch", false, "Reload the configuration when the file changes")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.logJSON, "log-json", false, "Write logs as JSON")
	fs.StringVar(&o.logFile, "log-file", "", "Write logs to a file instead of stderr")
	fs.StringVar(&o.debugAddr, "debug-addr", "", "Serve expvar metrics at http://ADDR/debug/vars")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&o.convert, "convert", "", "Convert a configuration file to Lua and print it to stdout")
	fs.BoolVar(&o.check, "check", false, "Validate the configuration given with -c and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.cells < 0 {
		return nil, fmt.Errorf("-cells must not be negative")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.version {
		fmt.Fprintf(stdout, "cozzle version %s\n", Version)
		return 0
	}

	if o.convert != "" {
		return runConvert(o.convert, stdout, stderr)
	}

	if o.check {
		return runCheck(o.configPath, stdout, stderr)
	}

	logger, closeLog, err := newLogger(o, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeLog()

	profConfig := profiling.Config{
		CPUProfilePath: o.cpuProfile,
		MemProfilePath: o.memProfile,
	}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	metrics := cozzle.DefaultMetrics()
	if o.debugAddr != "" {
		metrics.RegisterExpvar()
		stop, err := serveDebug(o.debugAddr, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start debug server: %v\n", err)
			return 1
		}
		defer stop()
	}

	c, err := newInstance(o, logger, metrics)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating cozzle instance: %v\n", err)
		return 1
	}

	return play(c, logger)
}

// newInstance builds the instance from the command line.
func newInstance(o *options, logger cozzle.Logger, metrics *cozzle.Metrics) (cozzle.Cozzle, error) {
	opts := cozzle.DefaultOptions()
	if o.tui {
		opts.Frontend = cozzle.FrontendTerminal
	}
	opts.Cells = o.cells
	opts.Seed = o.seed
	opts.WatchConfig = o.watch
	opts.Logger = logger
	opts.Metrics = metrics

	if o.configPath == "" {
		if o.watch {
			logger.Warn("-watch needs a configuration file given with -c")
		}
		return cozzle.NewDefault(&opts)
	}
	if _, err := os.Stat(o.configPath); err != nil {
		return nil, fmt.Errorf("configuration file %s: %w", o.configPath, err)
	}
	return cozzle.New(o.configPath, &opts)
}

// play starts c and blocks until the player quits or a signal stops it.
// SIGHUP reloads the configuration.
func play(c cozzle.Cozzle, logger cozzle.Logger) int {
	var once sync.Once
	done := make(chan struct{})

	c.SetErrorHandler(func(err error) {
		logger.Warn("runtime error", "error", err)
	})
	c.SetEventHandler(func(e cozzle.Event) {
		logger.Debug("event", "type", e.Type.String(), "message", e.Message)
		if e.Type == cozzle.EventStopped {
			once.Do(func() { close(done) })
		}
	})

	if err := c.Start(); err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, reloading configuration")
				if err := c.ReloadConfig(); err != nil {
					logger.Error("reload failed", "error", err)
				}
				continue
			}
			logger.Info("shutting down", "signal", sig.String())
			if err := c.Stop(); err != nil {
				logger.Error("stop failed", "error", err)
				return 1
			}
			return 0

		case <-done:
			return exitCode(c.Status())
		}
	}
}

// exitCode reports failure when the front end stopped on a critical error.
func exitCode(status cozzle.Status) int {
	var ce *cozzle.CategorizedError
	if errors.As(status.LastError, &ce) && ce.Severity == cozzle.SeverityCritical {
		return 1
	}
	return 0
}

// newLogger builds the logger selected by -log-level, -log-json and
// -log-file. The terminal front end owns the screen, so without -log-file
// its logs are discarded.
func newLogger(o *options, stderr io.Writer) (cozzle.Logger, func(), error) {
	level, ok := cozzle.ParseLevel(o.logLevel)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}

	w := stderr
	closeFn := func() {}
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case o.tui:
		w = io.Discard
	}

	if o.logJSON {
		return cozzle.JSONLogger(w, level), closeFn, nil
	}
	if level == slog.LevelDebug && w == os.Stderr {
		return cozzle.DebugLogger(), closeFn, nil
	}
	return cozzle.TextLogger(w, level), closeFn, nil
}

// serveDebug serves expvar on addr until the returned stop function runs.
func serveDebug(addr string, logger cozzle.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "url", "http://"+ln.Addr().String()+"/debug/vars")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

// runConvert prints the Lua form of a Lua or YAML configuration file.
func runConvert(path string, stdout, stderr io.Writer) int {
	luaContent, err := config.MigrateFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error converting configuration: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, string(luaContent))
	return 0
}

// runCheck validates a configuration file and prints its warnings.
func runCheck(path string, stdout, stderr io.Writer) int {
	if path == "" {
		fmt.Fprintln(stderr, "-check needs a configuration file given with -c")
		return 2
	}

	parser, err := config.NewParser()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer parser.Close()

	cfg, err := parser.ParseFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	config.ExpandEnvConfig(cfg)

	result := config.NewValidator().Validate(cfg)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w.Error())
	}
	if err := result.Error(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok (%d cells)\n", path, cfg.Puzzle.Cells)
	return 0
}
