// Package config provides configuration data structures for go-cozzle.
// Configurations come either from a Lua script that fills the
// cozzle.config table or from a YAML document; both produce the same
// Config value.
package config

import (
	"image/color"
)

// Config represents the complete go-cozzle configuration.
type Config struct {
	// Window contains window-related configuration options.
	Window WindowConfig
	// Puzzle contains board generation settings shared by every front end.
	Puzzle PuzzleConfig
	// Display contains frame rate and drawing settings.
	Display DisplayConfig
	// Colors contains the non-puzzle colors used when drawing the board.
	Colors ColorConfig
}

// WindowConfig holds window-related configuration options.
type WindowConfig struct {
	// Width is the window width in pixels.
	Width int
	// Height is the window height in pixels.
	Height int
	// Title is the window title. Environment references are expanded.
	Title string
	// Resizable lets the user resize the window; the board scales with it.
	Resizable bool
}

// PuzzleConfig holds gradient generation settings.
type PuzzleConfig struct {
	// Cells is the gradient length N, including both fixed endpoints.
	Cells int
	// Seed makes boards reproducible. Zero selects a random seed.
	Seed uint64
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	// TPS is the number of update ticks per second.
	TPS int
	// CellMargin is the gap in pixels between neighbouring cells.
	CellMargin int
	// BorderWidth is the outline width in pixels of the armed cell.
	BorderWidth int
	// ShowStatus draws the move counter strip below the board.
	ShowStatus bool
}

// ColorConfig holds color definitions.
type ColorConfig struct {
	// Background fills the window behind the cells.
	Background color.RGBA
	// Selection outlines the armed cell.
	Selection color.RGBA
	// Status is the status line text color.
	Status color.RGBA
}

// Validate checks the configuration and returns a combined error for all
// problems found. Warnings are not reported here; use Validator for those.
func (c *Config) Validate() error {
	return NewValidator().Validate(c).Error()
}
