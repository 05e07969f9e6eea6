//go:build notui

package tui

import (
	"context"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// Session holds the puzzle state; without the terminal front end it can
// only be driven through Select.
type Session struct {
	board *board
	opts  Options
}

// NewSession creates a Session that plays state.
func NewSession(state *puzzle.State, opts Options) *Session {
	return &Session{board: newBoard(state), opts: opts}
}

// Run always returns ErrUnavailable in notui builds.
func (s *Session) Run(ctx context.Context) error {
	return ErrUnavailable
}

// Select activates cell index.
func (s *Session) Select(index int) error {
	_, err := s.board.selectCell(index)
	return err
}

// Snapshot returns a copy of the puzzle state.
func (s *Session) Snapshot() puzzle.Snapshot {
	return s.board.snapshot()
}

// SetState replaces the puzzle being played.
func (s *Session) SetState(state *puzzle.State) {
	s.board.setState(state)
}
