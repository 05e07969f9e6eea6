package config

import (
	"image/color"
)

// Default values for configuration options.
const (
	// DefaultCells is the classic single-row board length.
	DefaultCells = 10
	// DefaultWidth is the default window width in pixels.
	DefaultWidth = 800
	// DefaultHeight is the default window height in pixels.
	DefaultHeight = 200
	// DefaultTitle is the default window title.
	DefaultTitle = "Cozzle"
	// DefaultTPS matches ebiten's default tick rate.
	DefaultTPS = 60
	// DefaultCellMargin is the gap between cells in pixels.
	DefaultCellMargin = 2
	// DefaultBorderWidth is the armed cell outline width in pixels.
	DefaultBorderWidth = 3
)

// Default colors.
var (
	// DefaultBackground is the window fill color (black).
	DefaultBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	// DefaultSelection is the armed cell outline color (white).
	DefaultSelection = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// DefaultStatus is the status line color (grey).
	DefaultStatus = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Title:     DefaultTitle,
			Resizable: true,
		},
		Puzzle: PuzzleConfig{
			Cells: DefaultCells,
			Seed:  0,
		},
		Display: DisplayConfig{
			TPS:         DefaultTPS,
			CellMargin:  DefaultCellMargin,
			BorderWidth: DefaultBorderWidth,
			ShowStatus:  true,
		},
		Colors: ColorConfig{
			Background: DefaultBackground,
			Selection:  DefaultSelection,
			Status:     DefaultStatus,
		},
	}
}
