package tui

import (
	"sync"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// board serializes access to the puzzle state between the terminal event
// loop and callers of Session.Select and Session.Snapshot.
type board struct {
	mu    sync.Mutex
	state *puzzle.State
}

func newBoard(state *puzzle.State) *board {
	if state == nil {
		panic("tui: nil puzzle state")
	}
	return &board{state: state}
}

// selectCell activates index and reports whether it completed a swap.
func (b *board) selectCell(index int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.state.CheckIndex(index); err != nil {
		return false, err
	}
	before := b.state.Moves()
	b.state.SelectOrSwap(index)
	return b.state.Moves() != before, nil
}

// tick runs the win check. moves is the swap count of the board that was
// just solved.
func (b *board) tick() (solved bool, moves, wins int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	moves = b.state.Moves()
	solved = b.state.Tick()
	return solved, moves, b.state.Wins()
}

func (b *board) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.Reset()
}

func (b *board) snapshot() puzzle.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Snapshot()
}

func (b *board) setState(state *puzzle.State) {
	if state == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
}
