// Package render provides the Ebiten front end for go-cozzle.
// Game implements ebiten.Game: every tick it applies clicks to the puzzle
// state, runs the win check, and draws the board.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// ErrGameTerminated is returned from Update when the game loop is asked
// to stop, either through context cancellation or the Escape key.
var ErrGameTerminated = errors.New("game terminated")

// pinSize is the side of the square marking a fixed endpoint cell.
const pinSize = 6.0

// TextRendererInterface defines the interface for text rendering.
// This allows for mocking in tests.
type TextRendererInterface interface {
	DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	MeasureText(textStr string) (width, height float64)
	LineHeight() float64
	SetFontSize(size float64)
	FontSize() float64
}

// SolvedHandler is called after a tick detected a solved board. moves is
// the number of swaps the player needed; wins the new total.
type SolvedHandler func(moves, wins int)

// SwapHandler is called after a player click swapped two cells.
type SwapHandler func()

// Game implements ebiten.Game and owns the puzzle state while it runs.
type Game struct {
	config       Config
	state        *puzzle.State
	textRenderer TextRendererInterface
	input        Input
	onSolved     SolvedHandler
	onSwap       SwapHandler
	screenW      int
	screenH      int
	mu           sync.RWMutex
	running      bool
	ctx          context.Context
}

// NewGame creates a new Game that plays state.
func NewGame(config Config, state *puzzle.State) *Game {
	return NewGameWithRenderer(config, state, NewTextRenderer())
}

// NewGameWithRenderer creates a new Game instance with a custom text renderer.
// This is useful for testing.
func NewGameWithRenderer(config Config, state *puzzle.State, renderer TextRendererInterface) *Game {
	if state == nil {
		panic("render: nil puzzle state")
	}
	return &Game{
		config:       config,
		state:        state,
		textRenderer: renderer,
		input:        newEbitenInput(),
		screenW:      config.Width,
		screenH:      config.Height,
	}
}

// SetInput replaces the input source.
func (g *Game) SetInput(in Input) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = in
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetSolvedHandler registers fn to be called when a puzzle is solved.
func (g *Game) SetSolvedHandler(fn SolvedHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onSolved = fn
}

// SetSwapHandler registers fn to be called after every swap.
func (g *Game) SetSwapHandler(fn SwapHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onSwap = fn
}

// SetState replaces the puzzle being played, for example after the board
// length changed in a reloaded configuration.
func (g *Game) SetState(state *puzzle.State) {
	if state == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
}

// Update implements ebiten.Game.Update.
// It is called every tick (TPS times per second).
func (g *Game) Update() error {
	swaps, solved, moves, wins, err := g.step()

	g.mu.RLock()
	onSwap, onSolved := g.onSwap, g.onSolved
	g.mu.RUnlock()

	if onSwap != nil {
		for i := 0; i < swaps; i++ {
			onSwap()
		}
	}
	if solved && onSolved != nil {
		onSolved(moves, wins)
	}
	return err
}

// step applies one tick of input under the lock. Handlers run after the
// lock is released so they may call back into the Game.
func (g *Game) step() (swaps int, solved bool, moves, wins int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return 0, false, 0, 0, ErrGameTerminated
		default:
		}
	}

	if g.input.KeyJustPressed(ebiten.KeyEscape) {
		return 0, false, 0, 0, ErrGameTerminated
	}
	if g.input.KeyJustPressed(ebiten.KeyR) {
		g.state.Reset()
	}

	layout := g.layout()
	for _, p := range g.input.Presses() {
		idx, ok := layout.CellAt(p.X, p.Y)
		if !ok || g.state.CheckIndex(idx) != nil {
			continue
		}
		before := g.state.Moves()
		g.state.SelectOrSwap(idx)
		if g.state.Moves() != before {
			swaps++
		}
	}

	moves = g.state.Moves()
	solved = g.state.Tick()
	return swaps, solved, moves, g.state.Wins(), nil
}

// layout computes cell placement for the current screen size.
// Callers hold g.mu.
func (g *Game) layout() Layout {
	var status float64
	if g.config.ShowStatus {
		status = g.textRenderer.LineHeight() + float64(g.config.CellMargin)
	}
	return Layout{
		Width:        g.screenW,
		Height:       g.screenH,
		Cells:        g.state.Len(),
		Margin:       float64(g.config.CellMargin),
		StatusHeight: status,
	}
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	screen.Fill(g.config.BackgroundColor)

	layout := g.layout()
	cells := g.state.Current()
	pending, armed := g.state.PendingSelection()

	for i, c := range cells {
		x, y, w, h := layout.CellRect(i)
		fill := c.RGBA()
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), fill, false)

		if i == 0 || i == len(cells)-1 {
			px := x + (w-pinSize)/2
			py := y + h - 2*pinSize
			vector.DrawFilledRect(screen, float32(px), float32(py), pinSize, pinSize, Contrasting(fill), false)
		}

		if armed && i == pending && g.config.BorderWidth > 0 {
			bw := float64(g.config.BorderWidth)
			outline := MarkerColor(g.config.SelectionColor, fill)
			vector.StrokeRect(screen, float32(x+bw/2), float32(y+bw/2), float32(w-bw), float32(h-bw),
				float32(bw), outline, false)
		}
	}

	if g.config.ShowStatus {
		x, y := layout.StatusOrigin()
		g.textRenderer.DrawText(screen, g.statusLine(), x, y, g.config.StatusColor)
	}
}

// statusLine formats the move counter. Callers hold g.mu.
func (g *Game) statusLine() string {
	return fmt.Sprintf("moves: %d  solved: %d", g.state.Moves(), g.state.Wins())
}

// Layout implements ebiten.Game.Layout. The logical screen follows the
// window so cells stretch when it is resized.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if outsideWidth > 0 && outsideHeight > 0 {
		g.screenW, g.screenH = outsideWidth, outsideHeight
	}
	return g.screenW, g.screenH
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration in-place.
// This allows hot-reloading of configuration without stopping the game loop.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	running := g.running
	g.config = config
	g.mu.Unlock()

	if running {
		ebiten.SetWindowTitle(config.Title)
		ebiten.SetTPS(config.TPS)
	}
}

// Select activates cell index as if it had been clicked. It returns
// puzzle.ErrNotInterior for endpoints and out-of-range indices.
func (g *Game) Select(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.state.CheckIndex(index); err != nil {
		return err
	}
	g.state.SelectOrSwap(index)
	return nil
}

// Snapshot returns a copy of the puzzle state.
func (g *Game) Snapshot() puzzle.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state.Snapshot()
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed or Update fails.
func (g *Game) Run() error {
	g.mu.Lock()
	cfg := g.config
	g.running = true
	g.mu.Unlock()

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
	ebiten.SetTPS(cfg.TPS)

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
