package cozzle

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/opd-ai/go-cozzle/internal/config"
)

// Configuration format constants for use with NewFromReader.
const (
	// FormatLua indicates a Lua script assigning cozzle.config.
	FormatLua = config.FormatLua
	// FormatYAML indicates a YAML document.
	FormatYAML = config.FormatYAML
)

// Cozzle represents an embedded puzzle instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Cozzle interface {
	// Start deals a puzzle and starts the front end.
	// It returns immediately; the front end runs in a background goroutine.
	// Returns ErrAlreadyRunning if already running.
	Start() error

	// Stop gracefully shuts down the instance and waits for the front end
	// to exit. Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Restart performs a stop followed by a start.
	// Configuration is reloaded from the original source and a new puzzle
	// is dealt.
	Restart() error

	// ReloadConfig reloads the configuration without stopping. Display
	// settings take effect immediately; a changed cell count or seed deals
	// a new puzzle. On error the previous configuration remains active.
	ReloadConfig() error

	// IsRunning returns true if the instance is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously with a *CategorizedError.
	// Panics in the handler are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the instance.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	Metrics() *Metrics

	// Select activates cell index as if the player had chosen it. The
	// first selection arms a cell; the second swaps or, on the same cell,
	// disarms. Returns ErrNotRunning when stopped and an error wrapping
	// puzzle.ErrNotInterior for endpoints and out-of-range indices.
	Select(index int) error

	// Snapshot returns a copy of the board. Returns ErrNotRunning when
	// stopped.
	Snapshot() (Snapshot, error)
}

// New creates a new Cozzle instance from a Lua or YAML configuration file
// on disk. The instance is created but not started; call Start() to begin.
//
// Example:
//
//	c, err := cozzle.New("/home/user/.config/cozzle.yaml", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Stop()
//	if err := c.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (Cozzle, error) {
	loader := newConfigLoader(func(p *config.Parser) (*config.Config, error) {
		return p.ParseFile(configPath)
	})
	return newImpl(loader, configPath, configPath, opts)
}

// NewFromFS creates a new Cozzle instance using configuration from a
// filesystem such as an embed.FS.
//
// Example:
//
//	//go:embed configs/*
//	var configFS embed.FS
//
//	c, err := cozzle.NewFromFS(configFS, "configs/cozzle.lua", nil)
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (Cozzle, error) {
	loader := newConfigLoader(func(p *config.Parser) (*config.Config, error) {
		return p.ParseFromFS(fsys, configPath)
	})
	return newImpl(loader, "embedded:"+configPath, "", opts)
}

// NewFromReader creates a new Cozzle instance from configuration content
// provided as an io.Reader. The format must be FormatLua or FormatYAML.
// The content is read once and kept for Restart and ReloadConfig.
//
// Example:
//
//	cfg := strings.NewReader("puzzle:\n  cells: 12\n")
//	c, err := cozzle.NewFromReader(cfg, cozzle.FormatYAML, nil)
func NewFromReader(r io.Reader, format string, opts *Options) (Cozzle, error) {
	if format != FormatLua && format != FormatYAML {
		return nil, fmt.Errorf("invalid format: %s (expected '%s' or '%s')", format, FormatLua, FormatYAML)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	loader := newConfigLoader(func(p *config.Parser) (*config.Config, error) {
		return p.ParseReader(bytes.NewReader(content), format)
	})
	return newImpl(loader, "reader", "", opts)
}

// NewDefault creates a new Cozzle instance from the built-in defaults.
func NewDefault(opts *Options) (Cozzle, error) {
	loader := func() (*config.Config, error) {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}
	return newImpl(loader, "defaults", "", opts)
}

// configLoader produces a fresh, validated configuration.
type configLoader func() (*config.Config, error)

// newConfigLoader wraps parse with parser setup, environment expansion
// and validation.
func newConfigLoader(parse func(*config.Parser) (*config.Config, error)) configLoader {
	return func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, fmt.Errorf("parser init: %w", err)
		}
		defer p.Close()

		cfg, err := parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		config.ExpandEnvConfig(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
}
