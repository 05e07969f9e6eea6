//go:build !noebiten

package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-cozzle/internal/puzzle"
)

// mockTextRenderer implements TextRendererInterface for testing
type mockTextRenderer struct {
	mu            sync.RWMutex
	drawTextCalls int
	lastText      string
	fontSize      float64
}

func newMockTextRenderer() *mockTextRenderer {
	return &mockTextRenderer{fontSize: 10.0}
}

func (m *mockTextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawTextCalls++
	m.lastText = textStr
}

func (m *mockTextRenderer) MeasureText(textStr string) (width, height float64) {
	return float64(len(textStr)) * 10, 12
}

func (m *mockTextRenderer) LineHeight() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fontSize * 1.2
}

func (m *mockTextRenderer) SetFontSize(size float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fontSize = size
}

func (m *mockTextRenderer) FontSize() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fontSize
}

// fakeInput replays one batch of presses and keys per Update.
type fakeInput struct {
	presses []image.Point
	keys    map[ebiten.Key]bool
}

func (f *fakeInput) Presses() []image.Point {
	p := f.presses
	f.presses = nil
	return p
}

func (f *fakeInput) KeyJustPressed(key ebiten.Key) bool {
	if f.keys[key] {
		delete(f.keys, key)
		return true
	}
	return false
}

func (f *fakeInput) click(pts ...image.Point) { f.presses = append(f.presses, pts...) }

func (f *fakeInput) press(key ebiten.Key) {
	if f.keys == nil {
		f.keys = make(map[ebiten.Key]bool)
	}
	f.keys[key] = true
}

var (
	g0 = puzzle.Opaque(0.0, 0.0, 0.0)
	g1 = puzzle.Opaque(0.2, 0.2, 0.2)
	g2 = puzzle.Opaque(0.4, 0.4, 0.4)
	g3 = puzzle.Opaque(0.6, 0.6, 0.6)
)

// fixedSource always deals the same four-cell puzzle with its two
// interior cells swapped.
type fixedSource struct {
	mu       sync.Mutex
	generate int
}

func (s *fixedSource) Generate() puzzle.Gradient {
	s.mu.Lock()
	s.generate++
	s.mu.Unlock()
	return puzzle.Gradient{g0, g1, g2, g3}
}

func (s *fixedSource) Shuffle(g puzzle.Gradient) puzzle.Gradient {
	return puzzle.Gradient{g[0], g[2], g[1], g[3]}
}

// Four cells in a 45x50 screen with a 1px margin are 10px wide; cell i
// is centred at x = 6 + 11*i.
func cellCenter(i int) image.Point { return image.Pt(6+11*i, 20) }

func newTestGame(t *testing.T) (*Game, *fakeInput, *fixedSource, *mockTextRenderer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 45, 50
	cfg.CellMargin = 1
	cfg.ShowStatus = false

	src := &fixedSource{}
	renderer := newMockTextRenderer()
	game := NewGameWithRenderer(cfg, puzzle.NewState(src), renderer)
	in := &fakeInput{}
	game.SetInput(in)
	return game, in, src, renderer
}

func TestGameClickArmsCell(t *testing.T) {
	game, in, _, _ := newTestGame(t)

	in.click(cellCenter(1))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	snap := game.Snapshot()
	if !snap.Armed || snap.Pending != 1 {
		t.Errorf("Pending/Armed = %d/%v, want 1/true", snap.Pending, snap.Armed)
	}
}

func TestGameSwapSolvesAndRegenerates(t *testing.T) {
	game, in, src, _ := newTestGame(t)

	var swaps int
	var gotMoves, gotWins int
	game.SetSwapHandler(func() { swaps++ })
	game.SetSolvedHandler(func(moves, wins int) {
		gotMoves, gotWins = moves, wins
		// Handlers run outside the lock.
		_ = game.Snapshot()
	})

	in.click(cellCenter(1))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	in.click(cellCenter(2))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	if swaps != 1 {
		t.Errorf("swap handler called %d times, want 1", swaps)
	}
	if gotMoves != 1 || gotWins != 1 {
		t.Errorf("solved handler got moves=%d wins=%d, want 1 and 1", gotMoves, gotWins)
	}
	if src.generate != 2 {
		t.Errorf("Generate called %d times, want 2", src.generate)
	}

	snap := game.Snapshot()
	if snap.Armed || snap.Moves != 0 || snap.Wins != 1 {
		t.Errorf("after win: armed=%v moves=%d wins=%d", snap.Armed, snap.Moves, snap.Wins)
	}
	if !snap.Current.Equal(puzzle.Gradient{g0, g2, g1, g3}) {
		t.Errorf("Current = %v, want a fresh shuffled board", snap.Current)
	}
}

func TestGameTwoClicksInOneTick(t *testing.T) {
	game, in, _, _ := newTestGame(t)
	solved := 0
	game.SetSolvedHandler(func(int, int) { solved++ })

	in.click(cellCenter(2), cellCenter(1))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if solved != 1 {
		t.Errorf("solved %d times, want 1", solved)
	}
}

func TestGameIgnoresEndpointsAndMargins(t *testing.T) {
	game, in, _, _ := newTestGame(t)

	in.click(cellCenter(0), cellCenter(3), image.Pt(11, 20), image.Pt(6, 0), image.Pt(200, 200))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}

	if snap := game.Snapshot(); snap.Armed {
		t.Errorf("non-interior click armed cell %d", snap.Pending)
	}
}

func TestGameResetKey(t *testing.T) {
	game, in, src, _ := newTestGame(t)
	in.click(cellCenter(1))
	in.press(ebiten.KeyR)

	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if src.generate != 2 {
		t.Errorf("Generate called %d times, want 2", src.generate)
	}
	// The click is applied to the new board.
	if snap := game.Snapshot(); !snap.Armed || snap.Wins != 0 {
		t.Errorf("armed=%v wins=%d after reset+click", snap.Armed, snap.Wins)
	}
}

func TestGameEscapeTerminates(t *testing.T) {
	game, in, _, _ := newTestGame(t)
	in.press(ebiten.KeyEscape)

	if err := game.Update(); !errors.Is(err, ErrGameTerminated) {
		t.Errorf("Update() = %v, want %v", err, ErrGameTerminated)
	}
}

func TestGameUpdateWithCancelledContext(t *testing.T) {
	game, _, _, _ := newTestGame(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	game.SetContext(ctx)

	if err := game.Update(); !errors.Is(err, ErrGameTerminated) {
		t.Errorf("Update() = %v, want %v", err, ErrGameTerminated)
	}
}

func TestGameUpdateWithoutInput(t *testing.T) {
	game, _, _, _ := newTestGame(t)
	before := game.Snapshot()

	for i := 0; i < 10; i++ {
		if err := game.Update(); err != nil {
			t.Fatalf("Update() = %v", err)
		}
	}
	if after := game.Snapshot(); !after.Current.Equal(before.Current) {
		t.Error("idle ticks changed the board")
	}
}

func TestGameLayoutFollowsWindow(t *testing.T) {
	game, in, _, _ := newTestGame(t)

	w, h := game.Layout(90, 100)
	if w != 90 || h != 100 {
		t.Errorf("Layout() = %d,%d, want 90,100", w, h)
	}
	w, h = game.Layout(0, 0)
	if w != 90 || h != 100 {
		t.Errorf("Layout(0,0) = %d,%d, want previous size", w, h)
	}

	// Cells are now 21.25px wide; cell 1 spans x 23.25 to 44.5.
	in.click(image.Pt(30, 90))
	if err := game.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if snap := game.Snapshot(); !snap.Armed || snap.Pending != 1 {
		t.Errorf("Pending/Armed = %d/%v, want 1/true", snap.Pending, snap.Armed)
	}
}

func TestGameSelect(t *testing.T) {
	game, _, _, _ := newTestGame(t)

	for _, idx := range []int{0, 3, -1, 4} {
		if err := game.Select(idx); !errors.Is(err, puzzle.ErrNotInterior) {
			t.Errorf("Select(%d) = %v, want ErrNotInterior", idx, err)
		}
	}
	if err := game.Select(1); err != nil {
		t.Fatalf("Select(1) = %v", err)
	}
	if err := game.Select(2); err != nil {
		t.Fatalf("Select(2) = %v", err)
	}
	if snap := game.Snapshot(); snap.Moves != 1 || !snap.Current.Equal(snap.Solution) {
		t.Errorf("Select did not swap: %+v", snap)
	}
}

func TestGameSetState(t *testing.T) {
	game, _, _, _ := newTestGame(t)
	game.SetState(nil)
	if game.Snapshot().Current.Len() != 4 {
		t.Fatal("SetState(nil) replaced the state")
	}

	game.SetState(puzzle.NewState(puzzle.NewSeededGenerator(7, 1)))
	if n := game.Snapshot().Current.Len(); n != 7 {
		t.Errorf("board length = %d, want 7", n)
	}
}

func TestGameDraw(t *testing.T) {
	game, _, _, renderer := newTestGame(t)
	screen := ebiten.NewImage(45, 50)

	game.Draw(screen)
	if renderer.drawTextCalls != 0 {
		t.Errorf("status drawn with ShowStatus=false")
	}

	cfg := game.Config()
	cfg.ShowStatus = true
	game.SetConfig(cfg)
	if err := game.Select(1); err != nil {
		t.Fatal(err)
	}

	game.Draw(screen)
	if renderer.drawTextCalls != 1 {
		t.Errorf("DrawText called %d times, want 1", renderer.drawTextCalls)
	}
	if renderer.lastText != "moves: 0  solved: 0" {
		t.Errorf("status = %q", renderer.lastText)
	}
}

func TestGameConfig(t *testing.T) {
	game, _, _, _ := newTestGame(t)

	cfg := game.Config()
	cfg.Title = "Updated"
	cfg.BorderWidth = 0
	game.SetConfig(cfg)

	got := game.Config()
	if got.Title != "Updated" || got.BorderWidth != 0 {
		t.Errorf("Config() = %+v", got)
	}
	if game.IsRunning() {
		t.Error("game should not be running before Run")
	}
}

func TestGameConcurrentAccess(t *testing.T) {
	game, _, _, _ := newTestGame(t)
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = game.Update()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = game.Select(1 + i%2)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = game.Snapshot()
			game.SetConfig(game.Config())
		}
	}()
	wg.Wait()
}

func TestNewGamePanicsOnNilState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewGameWithRenderer(nil state) did not panic")
		}
	}()
	NewGameWithRenderer(DefaultConfig(), nil, newMockTextRenderer())
}

func TestErrGameTerminated(t *testing.T) {
	if ErrGameTerminated.Error() != "game terminated" {
		t.Errorf("ErrGameTerminated.Error() = %q, want %q", ErrGameTerminated.Error(), "game terminated")
	}
}
