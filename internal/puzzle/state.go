package puzzle

import "fmt"

// maxShuffleAttempts bounds how often regeneration reshuffles a board that
// came out already solved. Boards that can never differ (a single interior
// cell, identical interior colors) are accepted and caught by Tick.
const maxShuffleAttempts = 8

// State is the puzzle state machine. It owns the solved gradient, the
// gradient shown to the player and at most one armed cell.
//
// State is not synchronized; its owner serializes SelectOrSwap and Tick.
type State struct {
	src     Source
	solved  Gradient
	current Gradient
	pending int
	armed   bool
	moves   int
	wins    int
}

// NewState generates a solved gradient from src and a shuffled board
// derived from it. The new state is unarmed.
func NewState(src Source) *State {
	if src == nil {
		panic("puzzle: nil gradient source")
	}
	s := &State{src: src}
	s.regenerate()
	return s
}

// regenerate replaces both gradients and clears per-puzzle state.
func (s *State) regenerate() {
	solved := s.src.Generate()
	if len(solved) < MinLength {
		panic(fmt.Sprintf("puzzle: source produced %d cells, need at least %d", len(solved), MinLength))
	}
	current := s.src.Shuffle(solved)
	for attempt := 1; attempt < maxShuffleAttempts && current.Equal(solved); attempt++ {
		current = s.src.Shuffle(solved)
	}
	s.solved = solved
	s.current = current
	s.pending = 0
	s.armed = false
	s.moves = 0
}

// Tick runs once per frame before rendering. When the board matches the
// solution it regenerates both gradients, disarms, and reports true.
// Otherwise it changes nothing.
func (s *State) Tick() bool {
	if !s.current.Equal(s.solved) {
		return false
	}
	s.wins++
	s.regenerate()
	return true
}

// Reset discards the current puzzle and deals a new one without counting
// a win.
func (s *State) Reset() {
	s.regenerate()
}

// CheckIndex returns ErrNotInterior unless index addresses an interior cell.
func (s *State) CheckIndex(index int) error {
	if !s.current.IsInterior(index) {
		return fmt.Errorf("cell %d of %d: %w", index, len(s.current), ErrNotInterior)
	}
	return nil
}

// SelectOrSwap applies one player activation of the cell at index.
//
//	Unarmed           -> Armed(index)
//	Armed(index)      -> Unarmed, board unchanged
//	Armed(other)      -> Unarmed, current[index] and current[other] swapped
//
// index must be interior; anything else is a caller bug and panics.
func (s *State) SelectOrSwap(index int) {
	if err := s.CheckIndex(index); err != nil {
		panic("puzzle: SelectOrSwap: " + err.Error())
	}
	if !s.armed {
		s.pending = index
		s.armed = true
		return
	}
	other := s.pending
	s.pending = 0
	s.armed = false
	if other == index {
		return
	}
	s.current[index], s.current[other] = s.current[other], s.current[index]
	s.moves++
}

// Current returns a copy of the board as shown to the player.
func (s *State) Current() Gradient {
	return s.current.Clone()
}

// Solution returns a copy of the solved gradient.
func (s *State) Solution() Gradient {
	return s.solved.Clone()
}

// PendingSelection returns the armed cell, if any.
func (s *State) PendingSelection() (int, bool) {
	return s.pending, s.armed
}

// IsSolved reports whether the board currently matches the solution.
// A solved board only survives until the next Tick.
func (s *State) IsSolved() bool {
	return s.current.Equal(s.solved)
}

// Len returns the number of cells on the board.
func (s *State) Len() int { return len(s.current) }

// Moves returns the swaps made on the current puzzle.
func (s *State) Moves() int { return s.moves }

// Wins returns how many puzzles Tick has detected as solved.
func (s *State) Wins() int { return s.wins }

// Snapshot is a point-in-time copy of a State.
type Snapshot struct {
	Current  Gradient
	Solution Gradient
	Pending  int
	Armed    bool
	Moves    int
	Wins     int
}

// Snapshot copies the observable state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Current:  s.Current(),
		Solution: s.Solution(),
		Pending:  s.pending,
		Armed:    s.armed,
		Moves:    s.moves,
		Wins:     s.wins,
	}
}
