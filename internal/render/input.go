package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input reports the player actions of a single tick.
// This allows for scripting input in tests.
type Input interface {
	// Presses returns the screen points pressed during this tick.
	Presses() []image.Point
	// KeyJustPressed reports whether key went down during this tick.
	KeyJustPressed(key ebiten.Key) bool
}

// ebitenInput reads the mouse, touch screen and keyboard through inpututil.
type ebitenInput struct {
	touchIDs []ebiten.TouchID
	points   []image.Point
}

func newEbitenInput() *ebitenInput {
	return &ebitenInput{}
}

func (in *ebitenInput) Presses() []image.Point {
	in.points = in.points[:0]
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.points = append(in.points, image.Pt(x, y))
	}
	in.touchIDs = inpututil.AppendJustPressedTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.points = append(in.points, image.Pt(x, y))
	}
	return in.points
}

func (in *ebitenInput) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
