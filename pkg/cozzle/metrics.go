package cozzle

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics collects operational counters for a Cozzle instance. It is
// exposed through expvar at /debug/vars once RegisterExpvar is called.
//
// Thread-safe for concurrent use.
type Metrics struct {
	// Counters
	starts        atomic.Int64
	stops         atomic.Int64
	restarts      atomic.Int64
	configReloads atomic.Int64
	selections    atomic.Int64
	swaps         atomic.Int64
	puzzlesSolved atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64

	// Moves per solved puzzle, for the average.
	solvedMoves atomic.Int64

	// Time from start of a puzzle to its solution (stored as nanoseconds)
	solveTimeNs atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32
	boardCells       atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// Safe to call multiple times; subsequent calls are no-ops. expvar names
// are process-global, so only one Metrics instance may be registered.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	expvar.Publish("cozzle_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("cozzle_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("cozzle_restarts_total", expvar.Func(func() any { return m.restarts.Load() }))
	expvar.Publish("cozzle_config_reloads_total", expvar.Func(func() any { return m.configReloads.Load() }))
	expvar.Publish("cozzle_selections_total", expvar.Func(func() any { return m.selections.Load() }))
	expvar.Publish("cozzle_swaps_total", expvar.Func(func() any { return m.swaps.Load() }))
	expvar.Publish("cozzle_puzzles_solved_total", expvar.Func(func() any { return m.puzzlesSolved.Load() }))
	expvar.Publish("cozzle_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("cozzle_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))

	expvar.Publish("cozzle_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("cozzle_board_cells", expvar.Func(func() any { return m.boardCells.Load() }))

	expvar.Publish("cozzle_moves_per_solve_avg", expvar.Func(func() any {
		return m.Snapshot().MovesPerSolveAvg
	}))
	expvar.Publish("cozzle_solve_time_avg_ms", expvar.Func(func() any {
		return float64(m.Snapshot().SolveTimeAvg) / float64(time.Millisecond)
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	solved := m.puzzlesSolved.Load()
	var movesAvg float64
	if solved > 0 {
		movesAvg = float64(m.solvedMoves.Load()) / float64(solved)
	}

	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		Restarts:      m.restarts.Load(),
		ConfigReloads: m.configReloads.Load(),
		Selections:    m.selections.Load(),
		Swaps:         m.swaps.Load(),
		PuzzlesSolved: solved,
		ErrorsTotal:   m.errorsTotal.Load(),
		EventsEmitted: m.eventsEmitted.Load(),

		Running:    m.currentlyRunning.Load() > 0,
		BoardCells: int(m.boardCells.Load()),

		MovesPerSolveAvg: movesAvg,
		SolveTimeAvg:     safeDivide(m.solveTimeNs.Load(), solved),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	Starts        int64
	Stops         int64
	Restarts      int64
	ConfigReloads int64
	Selections    int64
	Swaps         int64
	PuzzlesSolved int64
	ErrorsTotal   int64
	EventsEmitted int64

	// Gauges
	Running    bool
	BoardCells int

	// Averages over solved puzzles
	MovesPerSolveAvg float64
	SolveTimeAvg     time.Duration
}

// Counter increment methods

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementRestarts records a restart operation.
func (m *Metrics) IncrementRestarts() {
	m.restarts.Add(1)
}

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() {
	m.configReloads.Add(1)
}

// IncrementSelections records a cell selection made through the API.
func (m *Metrics) IncrementSelections() {
	m.selections.Add(1)
}

// IncrementSwaps records a completed swap.
func (m *Metrics) IncrementSwaps() {
	m.swaps.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// RecordSolve records a solved puzzle that took moves swaps and d of wall
// time.
func (m *Metrics) RecordSolve(moves int, d time.Duration) {
	m.puzzlesSolved.Add(1)
	m.solvedMoves.Add(int64(moves))
	m.solveTimeNs.Add(d.Nanoseconds())
}

// Gauge methods

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// SetBoardCells updates the board size gauge.
func (m *Metrics) SetBoardCells(n int) {
	m.boardCells.Store(int32(n))
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.restarts.Store(0)
	m.configReloads.Store(0)
	m.selections.Store(0)
	m.swaps.Store(0)
	m.puzzlesSolved.Store(0)
	m.errorsTotal.Store(0)
	m.eventsEmitted.Store(0)
	m.solvedMoves.Store(0)
	m.solveTimeNs.Store(0)
	m.currentlyRunning.Store(0)
	m.boardCells.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
