package cozzle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// cozzleImpl is the private implementation of the Cozzle interface.
type cozzleImpl struct {
	// Configuration
	cfg          *config.Config
	opts         Options
	configSource string
	watchPath    string // empty when the source cannot be watched
	configLoader configLoader

	// Components
	front   frontend
	watcher *configWatcher
	metrics *Metrics

	// State
	running     atomic.Bool
	startTime   time.Time
	selections  atomic.Uint64
	solved      atomic.Uint64
	puzzleStart atomic.Int64 // unix nanoseconds when the current puzzle was dealt
	lastError   atomic.Value // stores error

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Verify interface implementation at compile time.
var _ Cozzle = (*cozzleImpl)(nil)

// puzzleParams are the settings that determine which puzzles are dealt.
type puzzleParams struct {
	cells int
	seed  uint64
}

func newImpl(loader configLoader, source, watchPath string, opts *Options) (*cozzleImpl, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg, err := loader()
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = DefaultMetrics()
	}

	c := &cozzleImpl{
		cfg:          cfg,
		opts:         *opts,
		configSource: source,
		watchPath:    watchPath,
		configLoader: loader,
		metrics:      metrics,
	}
	if _, err := c.newState(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Start deals a puzzle and starts the front end.
func (c *cozzleImpl) Start() error {
	c.mu.Lock()

	if c.running.Load() {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}

	state, err := c.newState(c.cfg)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	front, run, err := c.newFrontend(c.cfg, state)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.front = front
	c.startWatcher()

	// Set running state BEFORE starting goroutine to avoid race
	c.running.Store(true)
	c.startTime = time.Now()
	c.selections.Store(0)
	c.solved.Store(0)
	c.puzzleStart.Store(c.startTime.UnixNano())

	c.metrics.IncrementStarts()
	c.metrics.SetRunning(true)
	c.metrics.SetBoardCells(state.Len())

	ctx, cancel := c.ctx, c.cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.metrics.SetRunning(false)
		defer c.running.Store(false)

		if err := run(ctx); err != nil {
			c.notifyError(Categorize(fmt.Errorf("%s front end: %w", c.opts.Frontend, err), ErrorCategoryRender, SeverityCritical))
		}

		// The player may have quit on their own; release everything that
		// waits on the context either way.
		cancel()
		c.stopWatcher()

		c.logDebug("front end exited", "frontend", c.opts.Frontend.String())
		c.emitEvent(EventStopped, "Instance stopped")
	}()

	// Release lock before emitting event to avoid deadlock
	c.mu.Unlock()

	c.logInfo("started", "frontend", c.opts.Frontend.String(), "cells", state.Len(), "source", c.configSource)
	c.emitEvent(EventStarted, "Instance started")

	return nil
}

// newFrontend builds the configured front end around state.
func (c *cozzleImpl) newFrontend(cfg *config.Config, state *puzzle.State) (frontend, runFunc, error) {
	switch c.opts.Frontend {
	case FrontendHeadless:
		front, run := c.newHeadlessFrontend(state)
		return front, run, nil
	case FrontendTerminal:
		front, run := c.newTerminalFrontend(cfg, state)
		return front, run, nil
	case FrontendWindow:
		return c.newWindowFrontend(cfg, state)
	default:
		return nil, nil, fmt.Errorf("unknown frontend %d", c.opts.Frontend)
	}
}

// Stop gracefully shuts down the instance.
func (c *cozzleImpl) Stop() error {
	if !c.running.Load() {
		// The front end may have exited on its own; let its cleanup finish.
		c.wg.Wait()
		return nil
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	timeout := c.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		c.metrics.IncrementStops()
		c.logInfo("stopped", "selections", c.selections.Load(), "solved", c.solved.Load())
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: front end did not stop", timeout)
		c.notifyError(NewCategorizedError(err, ErrorCategoryRender, SeverityCritical))
		return err
	}
}

// Restart performs a stop followed by a start.
func (c *cozzleImpl) Restart() error {
	if err := c.Stop(); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}

	cfg, err := c.configLoader()
	if err != nil {
		wrappedErr := fmt.Errorf("config reload failed: %w", err)
		c.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryConfig, SeverityError))
		return wrappedErr
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	c.emitEvent(EventConfigReloaded, "Configuration reloaded")

	if err := c.Start(); err != nil {
		wrappedErr := fmt.Errorf("start failed: %w", err)
		c.notifyError(Categorize(wrappedErr, ErrorCategoryRender, SeverityCritical))
		return wrappedErr
	}

	c.metrics.IncrementRestarts()
	c.emitEvent(EventRestarted, "Instance restarted")
	return nil
}

// ReloadConfig reloads the configuration in-place without stopping.
func (c *cozzleImpl) ReloadConfig() error {
	if !c.running.Load() {
		return ErrNotRunning
	}

	newCfg, err := c.configLoader()
	if err != nil {
		wrappedErr := fmt.Errorf("config reload failed: %w", err)
		c.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryConfig, SeverityError))
		return wrappedErr
	}

	c.mu.Lock()
	oldCfg := c.cfg
	front := c.front
	c.mu.Unlock()

	var state *puzzle.State
	if c.params(newCfg) != c.params(oldCfg) {
		state, err = c.newState(newCfg)
		if err != nil {
			wrappedErr := fmt.Errorf("config reload failed: %w", err)
			c.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryConfig, SeverityError))
			return wrappedErr
		}
	}

	c.mu.Lock()
	c.cfg = newCfg
	c.mu.Unlock()

	if front != nil {
		if applier, ok := front.(displayApplier); ok {
			applier.applyConfig(newCfg, c.opts.WindowTitle)
		}
		if state != nil {
			front.SetState(state)
			c.puzzleStart.Store(time.Now().UnixNano())
			c.metrics.SetBoardCells(state.Len())
			c.logInfo("new puzzle dealt", "cells", state.Len())
		}
	}

	c.metrics.IncrementConfigReloads()
	c.logInfo("configuration reloaded", "source", c.configSource)
	c.emitEvent(EventConfigReloaded, "Configuration reloaded in-place")
	return nil
}

// params applies the option overrides to cfg's puzzle settings.
func (c *cozzleImpl) params(cfg *config.Config) puzzleParams {
	p := puzzleParams{cells: cfg.Puzzle.Cells, seed: cfg.Puzzle.Seed}
	if c.opts.Cells > 0 {
		p.cells = c.opts.Cells
	}
	if c.opts.Seed != 0 {
		p.seed = c.opts.Seed
	}
	return p
}

// newState deals a puzzle for cfg. A zero seed draws a random one.
func (c *cozzleImpl) newState(cfg *config.Config) (*puzzle.State, error) {
	p := c.params(cfg)
	if p.cells < puzzle.MinLength {
		return nil, fmt.Errorf("cells must be at least %d, got %d", puzzle.MinLength, p.cells)
	}

	var src puzzle.Source
	if p.seed != 0 {
		src = puzzle.NewSeededGenerator(p.cells, p.seed)
	} else {
		src = puzzle.NewGenerator(p.cells, nil)
	}
	return puzzle.NewState(src), nil
}

// Select activates a cell through the running front end.
func (c *cozzleImpl) Select(index int) error {
	front := c.activeFrontend()
	if front == nil {
		return ErrNotRunning
	}

	before := front.Snapshot()
	if err := front.Select(index); err != nil {
		return err
	}

	c.selections.Add(1)
	c.metrics.IncrementSelections()
	if before.Armed && before.Pending != index {
		c.handleSwap()
	}
	return nil
}

// Snapshot returns a copy of the running board.
func (c *cozzleImpl) Snapshot() (Snapshot, error) {
	front := c.activeFrontend()
	if front == nil {
		return Snapshot{}, ErrNotRunning
	}
	return newSnapshot(front.Snapshot()), nil
}

func (c *cozzleImpl) activeFrontend() frontend {
	if !c.running.Load() {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.front
}

// handleSolved is called by the front end after the win check fired.
func (c *cozzleImpl) handleSolved(moves, wins int) {
	started := c.puzzleStart.Swap(time.Now().UnixNano())
	c.solved.Add(1)
	c.metrics.RecordSolve(moves, time.Since(time.Unix(0, started)))
	c.logInfo("puzzle solved", "moves", moves, "wins", wins)
	c.emitEvent(EventPuzzleSolved, fmt.Sprintf("solved in %d moves", moves))
}

// handleSwap is called after a selection exchanged two cells.
func (c *cozzleImpl) handleSwap() {
	c.metrics.IncrementSwaps()
}

// startWatcher starts the config file watcher when requested. Callers
// hold c.mu. A watcher that cannot start is reported and skipped.
func (c *cozzleImpl) startWatcher() {
	if !c.opts.WatchConfig {
		return
	}
	if c.watchPath == "" {
		c.logWarn("config watching needs a file source", "source", c.configSource)
		return
	}

	w, err := newConfigWatcher(c.watchPath, c.opts.WatchDebounce, c.reloadFromWatcher, func(err error) {
		c.notifyError(NewCategorizedError(err, ErrorCategoryIO, SeverityWarning))
	})
	if err != nil {
		go c.notifyError(NewCategorizedError(fmt.Errorf("watch config: %w", err), ErrorCategoryIO, SeverityWarning))
		return
	}
	c.watcher = w
	w.Start()
	c.logDebug("watching config", "path", c.watchPath)
}

// reloadFromWatcher reloads after a file change. ReloadConfig reports its
// own failures, so nothing is passed back to the watcher.
func (c *cozzleImpl) reloadFromWatcher() error {
	if err := c.ReloadConfig(); err != nil && !errors.Is(err, ErrNotRunning) {
		c.logDebug("reload after file change failed", "error", err)
	}
	return nil
}

func (c *cozzleImpl) stopWatcher() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

// IsRunning returns true if the instance is currently running.
func (c *cozzleImpl) IsRunning() bool {
	return c.running.Load()
}

// Status returns detailed status information about the instance.
func (c *cozzleImpl) Status() Status {
	c.mu.RLock()
	startTime := c.startTime
	configSource := c.configSource
	c.mu.RUnlock()

	return Status{
		Running:      c.running.Load(),
		StartTime:    startTime,
		Frontend:     c.opts.Frontend,
		Selections:   c.selections.Load(),
		Solved:       c.solved.Load(),
		LastError:    c.getError(),
		ConfigSource: configSource,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (c *cozzleImpl) SetErrorHandler(handler ErrorHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (c *cozzleImpl) SetEventHandler(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventHandler = handler
}

// Metrics returns the metrics collector for this instance.
func (c *cozzleImpl) Metrics() *Metrics {
	return c.metrics
}

// getError retrieves the last error.
func (c *cozzleImpl) getError() error {
	if v := c.lastError.Load(); v != nil {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// notifyError stores an error, logs it and invokes the error handler if
// registered. Uncategorized errors are wrapped as unknown errors.
func (c *cozzleImpl) notifyError(err error) {
	ce := Categorize(err, ErrorCategoryUnknown, SeverityError)
	c.lastError.Store(error(ce))
	c.metrics.IncrementErrors()

	c.mu.RLock()
	handler := c.errorHandler
	logger := c.opts.Logger
	c.mu.RUnlock()

	if logger != nil {
		logger.Error("runtime error", "error", ce.Err, "category", ce.Category.String(), "severity", ce.Severity.String())
	}

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in error handler to prevent crashing
				if r := recover(); r != nil && logger != nil {
					logger.Error("error handler panicked", "panic", r, "original_error", ce)
				}
			}()
			handler(ce)
		}()
	}

	c.emitEvent(EventError, ce.Error())
}

// emitEvent sends an event to the event handler if configured.
func (c *cozzleImpl) emitEvent(eventType EventType, message string) {
	c.metrics.IncrementEventsEmitted()

	c.mu.RLock()
	handler := c.eventHandler
	c.mu.RUnlock()

	if handler == nil {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Message:   message,
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				// Recover from panics in the handler to avoid crashing the embedding application.
				c.mu.RLock()
				errHandler := c.errorHandler
				c.mu.RUnlock()
				if errHandler != nil {
					errHandler(NewCategorizedError(fmt.Errorf("panic in event handler: %v", r), ErrorCategoryUnknown, SeverityError))
				}
			}
		}()
		handler(event)
	}()
}

func (c *cozzleImpl) logDebug(msg string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(msg, args...)
	}
}

func (c *cozzleImpl) logInfo(msg string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Info(msg, args...)
	}
}

func (c *cozzleImpl) logWarn(msg string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn(msg, args...)
	}
}
