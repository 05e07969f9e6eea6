package cozzle

import (
	"image/color"
	"time"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// Status represents the current state of a Cozzle instance.
type Status struct {
	// Running indicates if the instance is currently active.
	Running bool
	// StartTime is when the instance was last started (zero if never started).
	StartTime time.Time
	// Frontend is the front end the instance runs with.
	Frontend Frontend
	// Selections is the number of cell selections since the last start.
	Selections uint64
	// Solved is the number of puzzles solved since the last start.
	Solved uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// ConfigSource describes the configuration source (file path, "embedded:..." or "reader").
	ConfigSource string
}

// Snapshot is a copy of the board taken at one instant.
type Snapshot struct {
	// Current is the row of colors shown to the player.
	Current []color.RGBA
	// Solution is the ordering the player is trying to restore.
	Solution []color.RGBA
	// Pending is the armed cell index; meaningful only when Armed is true.
	Pending int
	Armed   bool
	// Moves counts swaps on the current puzzle.
	Moves int
	// Wins counts puzzles solved by this board.
	Wins int
}

// IsSolved reports whether Current matches Solution.
func (s Snapshot) IsSolved() bool {
	if len(s.Current) != len(s.Solution) {
		return false
	}
	for i := range s.Current {
		if s.Current[i] != s.Solution[i] {
			return false
		}
	}
	return true
}

func newSnapshot(ps puzzle.Snapshot) Snapshot {
	return Snapshot{
		Current:  toRGBA(ps.Current),
		Solution: toRGBA(ps.Solution),
		Pending:  ps.Pending,
		Armed:    ps.Armed,
		Moves:    ps.Moves,
		Wins:     ps.Wins,
	}
}

func toRGBA(g puzzle.Gradient) []color.RGBA {
	out := make([]color.RGBA, len(g))
	for i, c := range g {
		out[i] = c.RGBA()
	}
	return out
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously when errors occur during operation.
// Do not block in the handler; perform only quick, non-blocking operations.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
// The underlying integer values are implementation details and should not
// be relied upon for serialization. Use the constant names for comparison.
type EventType int

const (
	// EventStarted is emitted when the instance starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the instance stops.
	EventStopped
	// EventRestarted is emitted after a successful restart.
	EventRestarted
	// EventConfigReloaded is emitted when configuration is reloaded.
	EventConfigReloaded
	// EventPuzzleSolved is emitted when the player restores the gradient.
	EventPuzzleSolved
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRestarted:
		return "restarted"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventPuzzleSolved:
		return "puzzle_solved"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
