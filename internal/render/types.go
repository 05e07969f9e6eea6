package render

import (
	"fmt"
	"image/color"
	"math"
)

// Config holds the rendering configuration options.
type Config struct {
	// Width is the initial window width in pixels.
	Width int
	// Height is the initial window height in pixels.
	Height int
	// Title is the window title.
	Title string
	// Resizable allows the window to be resized; the board follows it.
	Resizable bool
	// TPS is the update rate in ticks per second.
	TPS int
	// CellMargin is the gap between cells and around the board in pixels.
	CellMargin int
	// BorderWidth is the outline width of the armed cell in pixels.
	BorderWidth int
	// ShowStatus reserves a strip under the board for the move counter.
	ShowStatus bool
	// BackgroundColor fills the window behind the cells.
	BackgroundColor color.RGBA
	// SelectionColor outlines the armed cell.
	SelectionColor color.RGBA
	// StatusColor is the status line text color.
	StatusColor color.RGBA
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          200,
		Title:           "Cozzle",
		Resizable:       true,
		TPS:             60,
		CellMargin:      2,
		BorderWidth:     3,
		ShowStatus:      true,
		BackgroundColor: color.RGBA{R: 0, G: 0, B: 0, A: 255},
		SelectionColor:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		StatusColor:     color.RGBA{R: 128, G: 128, B: 128, A: 255},
	}
}

// Validate checks if the Config has valid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	if c.CellMargin < 0 {
		return fmt.Errorf("cell margin must not be negative, got %d", c.CellMargin)
	}
	if c.BorderWidth < 0 {
		return fmt.Errorf("border width must not be negative, got %d", c.BorderWidth)
	}
	return nil
}

// Layout places a row of cells inside a screen area. Cells share the
// width equally and are separated by Margin pixels; StatusHeight pixels
// at the bottom are left for the status line.
type Layout struct {
	Width        int
	Height       int
	Cells        int
	Margin       float64
	StatusHeight float64
}

// cellWidth returns the width of a single cell, never negative.
func (l Layout) cellWidth() float64 {
	if l.Cells <= 0 {
		return 0
	}
	w := (float64(l.Width) - l.Margin*float64(l.Cells+1)) / float64(l.Cells)
	return math.Max(w, 0)
}

func (l Layout) cellHeight() float64 {
	return math.Max(float64(l.Height)-2*l.Margin-l.StatusHeight, 0)
}

// CellRect returns the rectangle of cell i.
func (l Layout) CellRect(i int) (x, y, w, h float64) {
	w = l.cellWidth()
	x = l.Margin + float64(i)*(w+l.Margin)
	return x, l.Margin, w, l.cellHeight()
}

// CellAt returns the cell under the screen point (x, y). Points in the
// margins or the status strip hit no cell.
func (l Layout) CellAt(x, y int) (int, bool) {
	w, h := l.cellWidth(), l.cellHeight()
	if w <= 0 || h <= 0 {
		return 0, false
	}
	fy := float64(y)
	if fy < l.Margin || fy >= l.Margin+h {
		return 0, false
	}
	fx := float64(x) - l.Margin
	if fx < 0 {
		return 0, false
	}
	i := int(fx / (w + l.Margin))
	if i >= l.Cells || fx-float64(i)*(w+l.Margin) >= w {
		return 0, false
	}
	return i, true
}

// StatusOrigin returns the top-left point of the status line.
func (l Layout) StatusOrigin() (x, y float64) {
	return l.Margin, float64(l.Height) - l.StatusHeight
}
