package cozzle

import (
	"errors"
	"testing"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

func TestHeadlessBoardTicksAfterSelect(t *testing.T) {
	var solvedMoves, solvedWins int
	calls := 0
	// Three cells leave a single interior cell, so every deal is solved
	// and the first tick regenerates it.
	state := puzzle.NewState(puzzle.NewSeededGenerator(3, 5))
	b := newHeadlessBoard(state, func(moves, wins int) {
		calls++
		solvedMoves, solvedWins = moves, wins
	})

	if err := b.Select(1); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || solvedMoves != 0 || solvedWins != 1 {
		t.Errorf("onSolved calls=%d moves=%d wins=%d, want 1, 0, 1", calls, solvedMoves, solvedWins)
	}
	if snap := b.Snapshot(); snap.Armed {
		t.Error("win check should clear the armed cell")
	}
}

func TestHeadlessBoardRejectsEndpoints(t *testing.T) {
	b := newHeadlessBoard(puzzle.NewState(puzzle.NewSeededGenerator(5, 1)), nil)
	if err := b.Select(4); !errors.Is(err, puzzle.ErrNotInterior) {
		t.Errorf("Select(4) = %v, want ErrNotInterior", err)
	}
	if snap := b.Snapshot(); snap.Armed {
		t.Error("rejected selection armed a cell")
	}
}

func TestHeadlessBoardSetState(t *testing.T) {
	b := newHeadlessBoard(puzzle.NewState(puzzle.NewSeededGenerator(5, 1)), nil)
	b.SetState(nil)
	if n := b.Snapshot().Current.Len(); n != 5 {
		t.Errorf("SetState(nil) replaced the board, len = %d", n)
	}
	b.SetState(puzzle.NewState(puzzle.NewSeededGenerator(7, 1)))
	if n := b.Snapshot().Current.Len(); n != 7 {
		t.Errorf("len = %d after SetState, want 7", n)
	}
}
