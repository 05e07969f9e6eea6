// Package tui renders the puzzle in a terminal. Cells are drawn as
// blocks of background color and driven from the keyboard.
package tui

import (
	"errors"
	"io"
)

var (
	// ErrNotTerminal is returned by Run when stdin is not a terminal and
	// no Input was configured.
	ErrNotTerminal = errors.New("tui: stdin is not a terminal")
	// ErrUnavailable is returned by Run in builds with the notui tag.
	ErrUnavailable = errors.New("tui: terminal front end not built")
)

// Options configures a Session.
type Options struct {
	// Input and Output default to the process stdin and stdout.
	Input  io.Reader
	Output io.Writer
	// AltScreen draws in the terminal's alternate screen buffer.
	AltScreen bool
	// ShowStatus prints the move counter and key help under the board.
	ShowStatus bool
	// CellWidth is the width of one cell in columns.
	CellWidth int
	// OnSolved is called after a tick detected a solved board.
	OnSolved func(moves, wins int)
	// OnSwap is called after a key press swapped two cells.
	OnSwap func()
}

// DefaultOptions returns Options for an interactive terminal.
func DefaultOptions() Options {
	return Options{
		AltScreen:  true,
		ShowStatus: true,
		CellWidth:  4,
	}
}
