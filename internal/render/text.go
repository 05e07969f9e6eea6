package render

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomonobold"
)

// defaultFontSize is the status line font size in points.
const defaultFontSize = 14.0

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// TextRenderer draws the status line using Ebiten's text package and the
// embedded Go Mono Bold face.
type TextRenderer struct {
	face *text.GoTextFace
	mu   sync.RWMutex
}

// NewTextRenderer creates a new TextRenderer with the default monospace font.
func NewTextRenderer() *TextRenderer {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(gomonobold.TTF))
	if err != nil {
		panic("failed to load embedded font: " + err.Error())
	}

	return &TextRenderer{
		face: &text.GoTextFace{Source: source, Size: defaultFontSize},
	}
}

// SetFontSize sets the font size for text rendering.
func (tr *TextRenderer) SetFontSize(size float64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.face = &text.GoTextFace{Source: tr.face.Source, Size: size}
}

// FontSize returns the current font size.
func (tr *TextRenderer) FontSize() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.face.Size
}

// DrawText renders text with its top-left corner at (x, y).
func (tr *TextRenderer) DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA) {
	tr.mu.RLock()
	face := tr.face
	tr.mu.RUnlock()

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = face.Size * lineSpacing

	text.Draw(screen, textStr, face, op)
}

// MeasureText returns the width and height of the given text string.
func (tr *TextRenderer) MeasureText(textStr string) (width, height float64) {
	tr.mu.RLock()
	face := tr.face
	tr.mu.RUnlock()

	return text.Measure(textStr, face, face.Size*lineSpacing)
}

// LineHeight returns the height of a single line of text.
func (tr *TextRenderer) LineHeight() float64 {
	return tr.FontSize() * lineSpacing
}
