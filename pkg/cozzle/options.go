package cozzle

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Frontend selects how the puzzle is presented.
type Frontend int

const (
	// FrontendWindow opens an Ebiten window. In builds with the noebiten
	// tag it behaves like FrontendHeadless.
	FrontendWindow Frontend = iota
	// FrontendTerminal draws the board in the terminal.
	FrontendTerminal
	// FrontendHeadless presents nothing; the board is driven through
	// Cozzle.Select.
	FrontendHeadless
)

// String returns the name used by ParseFrontend.
func (f Frontend) String() string {
	switch f {
	case FrontendWindow:
		return "window"
	case FrontendTerminal:
		return "terminal"
	case FrontendHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// ParseFrontend converts a front end name to a Frontend. "tui" is accepted
// as an alias for "terminal".
func ParseFrontend(s string) (Frontend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "window", "gui":
		return FrontendWindow, nil
	case "terminal", "tui":
		return FrontendTerminal, nil
	case "headless", "none":
		return FrontendHeadless, nil
	default:
		return FrontendWindow, fmt.Errorf("unknown frontend %q", s)
	}
}

// Options configures the Cozzle instance behavior.
type Options struct {
	// Frontend selects the presentation. The zero value is FrontendWindow.
	Frontend Frontend

	// Cells overrides the configured number of cells.
	// Zero means use the configuration file's value.
	Cells int

	// Seed overrides the configured generator seed.
	// Zero means use the configuration file's value.
	Seed uint64

	// WindowTitle overrides the window title.
	// Empty string means use the configuration file's value.
	WindowTitle string

	// TerminalInput and TerminalOutput replace stdin and stdout for
	// FrontendTerminal. Mostly useful in tests.
	TerminalInput  io.Reader
	TerminalOutput io.Writer

	// ShutdownTimeout sets the maximum time to wait for graceful shutdown.
	// Zero means use DefaultShutdownTimeout (5 seconds).
	ShutdownTimeout time.Duration

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector for operational metrics.
	// If nil, DefaultMetrics() is used.
	// Metrics can be exposed via /debug/vars by calling Metrics.RegisterExpvar().
	Metrics *Metrics

	// WatchConfig enables automatic configuration hot-reloading when the
	// configuration file changes on disk. Only file sources created with
	// New can be watched.
	WatchConfig bool

	// WatchDebounce sets the debounce interval for file change events.
	// Multiple rapid file modifications within this window trigger only
	// a single reload. Zero means use the default (500ms).
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Frontend:        FrontendWindow,
		ShutdownTimeout: 0, // Use DefaultShutdownTimeout
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
