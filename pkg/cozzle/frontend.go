package cozzle

import (
	"context"
	"sync"

	"github.com/opd-ai/go-cozzle/internal/config"
	"github.com/opd-ai/go-cozzle/internal/puzzle"
	"github.com/opd-ai/go-cozzle/internal/tui"
)

// frontend is the part of a presentation layer the instance talks to
// while it runs. render.Game, tui.Session and headlessBoard satisfy it.
type frontend interface {
	Select(index int) error
	Snapshot() puzzle.Snapshot
	SetState(state *puzzle.State)
}

// displayApplier is implemented by front ends that can apply display
// settings without a restart.
type displayApplier interface {
	applyConfig(cfg *config.Config, titleOverride string)
}

// runFunc runs a front end until ctx is cancelled or the player quits.
type runFunc func(ctx context.Context) error

// headlessBoard owns the puzzle state when nothing is drawn. Every
// selection is followed by the win check, standing in for the frame tick.
type headlessBoard struct {
	mu       sync.Mutex
	state    *puzzle.State
	onSolved func(moves, wins int)
}

func newHeadlessBoard(state *puzzle.State, onSolved func(moves, wins int)) *headlessBoard {
	return &headlessBoard{state: state, onSolved: onSolved}
}

func (b *headlessBoard) Select(index int) error {
	b.mu.Lock()
	if err := b.state.CheckIndex(index); err != nil {
		b.mu.Unlock()
		return err
	}
	b.state.SelectOrSwap(index)
	moves := b.state.Moves()
	solved := b.state.Tick()
	wins := b.state.Wins()
	b.mu.Unlock()

	if solved && b.onSolved != nil {
		b.onSolved(moves, wins)
	}
	return nil
}

func (b *headlessBoard) Snapshot() puzzle.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Snapshot()
}

func (b *headlessBoard) SetState(state *puzzle.State) {
	if state == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
}

func (c *cozzleImpl) newHeadlessFrontend(state *puzzle.State) (frontend, runFunc) {
	board := newHeadlessBoard(state, c.handleSolved)
	return board, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}
}

func (c *cozzleImpl) newTerminalFrontend(cfg *config.Config, state *puzzle.State) (frontend, runFunc) {
	opts := tui.DefaultOptions()
	opts.Input = c.opts.TerminalInput
	opts.Output = c.opts.TerminalOutput
	// A redirected terminal is a test harness or a pipe; keep the main
	// screen so the output stays readable.
	opts.AltScreen = c.opts.TerminalOutput == nil
	opts.ShowStatus = cfg.Display.ShowStatus
	opts.OnSolved = c.handleSolved
	opts.OnSwap = c.handleSwap

	session := tui.NewSession(state, opts)
	return session, session.Run
}
